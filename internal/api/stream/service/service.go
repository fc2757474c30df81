package streamService

import (
	"FaceStream/internal/api/stream"
	"FaceStream/internal/entity"
	"FaceStream/pkg/redis"
	"FaceStream/pkg/s3"
	"FaceStream/pkg/utils"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type IStreamService interface {
	Publish(frame entity.Frame)
	UpdateAttributes(ctx context.Context, frame entity.Frame)
	Attributes() entity.Attributes
	Faces() stream.FacesResponse
	Latest() (entity.Frame, error)

	Subscribe() (<-chan []byte, func(), error)
	SubscribeAttributes() (<-chan entity.Attributes, func())
	Subscribers() int

	UploadSnapshot(ctx context.Context) (*stream.SnapshotResponse, error)
	SnapshotsEnabled() bool

	Close()
}

type Config struct {
	AttributesTTL time.Duration
}

type streamService struct {
	log      *logrus.Logger
	redis    redis.IRedis
	s3Client s3.ItfS3
	utils    utils.IUtils
	ttl      time.Duration

	mu         sync.RWMutex
	attributes entity.Attributes
	faces      stream.FacesResponse
	latest     *entity.Frame

	frames     *broadcaster[[]byte]
	attrEvents *broadcaster[entity.Attributes]
	closeOnce  sync.Once
}

// NewStreamService builds the shared stream state. redisClient and s3Client
// may be nil.
func NewStreamService(
	log *logrus.Logger,
	cfg Config,
	redisClient redis.IRedis,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IStreamService {
	svc := &streamService{
		log:        log,
		redis:      redisClient,
		s3Client:   s3Client,
		utils:      utils,
		ttl:        cfg.AttributesTTL,
		attributes: entity.DefaultAttributes(),
		faces:      stream.FacesResponse{Faces: []entity.Face{}},
		frames:     newBroadcaster[[]byte](),
		attrEvents: newBroadcaster[entity.Attributes](),
	}
	svc.attrEvents.publish(svc.attributes)

	return svc
}
