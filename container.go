package motorhall

import (
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/analytics"
	"github.com/motorhall/motorhall/catalog"
	"github.com/motorhall/motorhall/config"
	"github.com/motorhall/motorhall/consignments"
	"github.com/motorhall/motorhall/email"
	"github.com/motorhall/motorhall/image/storage"
	"github.com/motorhall/motorhall/reviews"
	"github.com/motorhall/motorhall/sitecfg"
	"github.com/motorhall/motorhall/util"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const readHeaderTimeout = time.Second * 30

// Container Container.
type Container struct {
	config                 config.Config
	db                     *sql.DB
	dbMutex                sync.Mutex
	goquDB                 *goqu.Database
	redis                  *redis.Client
	imageStorage           *storage.Storage
	emailSender            email.Sender
	intakeNotice           *email.IntakeNotice
	auth                   *Auth
	catalogRepository      *catalog.Repository
	consignmentsRepository *consignments.Repository
	reviewsRepository      *reviews.Repository
	analyticsRepository    *analytics.Repository
	siteConfigRepository   *sitecfg.Repository
	publicHTTPServer       *http.Server
	privateHTTPServer      *http.Server
}

// NewContainer constructor.
func NewContainer(cfg config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

func (s *Container) Close() error {
	s.catalogRepository = nil
	s.consignmentsRepository = nil
	s.reviewsRepository = nil
	s.analyticsRepository = nil
	s.siteConfigRepository = nil
	s.imageStorage = nil
	s.intakeNotice = nil
	s.auth = nil

	if s.db != nil {
		util.Close(s.db)

		s.db = nil
		s.goquDB = nil
	}

	if s.redis != nil {
		err := s.redis.Close()
		if err != nil {
			logrus.Error(err.Error())
		}

		s.redis = nil
	}

	return nil
}

func (s *Container) Config() config.Config {
	return s.config
}

func (s *Container) DB() (*sql.DB, error) {
	s.dbMutex.Lock()
	defer s.dbMutex.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	start := time.Now()

	const (
		connectionTimeout = 60 * time.Second
		reconnectDelay    = 100 * time.Millisecond
	)

	logrus.Info("Waiting for mysql")

	var (
		db  *sql.DB
		err error
	)

	for {
		db, err = sql.Open("mysql", s.config.DSN)
		if err != nil {
			return nil, err
		}

		err = db.Ping()
		if err == nil {
			logrus.Info("Started.")

			break
		}

		if time.Since(start) > connectionTimeout {
			return nil, err
		}

		logrus.Infof(". %s", err.Error())
		time.Sleep(reconnectDelay)
	}

	s.db = db

	return s.db, nil
}

func (s *Container) GoquDB() (*goqu.Database, error) {
	if s.goquDB == nil {
		db, err := s.DB()
		if err != nil {
			return nil, err
		}

		s.goquDB = goqu.New("mysql", db)
	}

	return s.goquDB, nil
}

func (s *Container) Redis() *redis.Client {
	if s.redis == nil {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.config.Redis.Addr,
			Password: s.config.Redis.Password,
		})
	}

	return s.redis
}

func (s *Container) ImageStorage() (*storage.Storage, error) {
	if s.imageStorage == nil {
		imageStorage, err := storage.NewStorage(s.config.FileStorage)
		if err != nil {
			return nil, err
		}

		s.imageStorage = imageStorage
	}

	return s.imageStorage, nil
}

func (s *Container) EmailSender() email.Sender {
	if s.emailSender == nil {
		if s.config.SMTP.Hostname == "" {
			s.emailSender = &email.MockSender{}
		} else {
			s.emailSender = &email.SMTPSender{Config: s.config.SMTP}
		}
	}

	return s.emailSender
}

func (s *Container) IntakeNotice() *email.IntakeNotice {
	if s.intakeNotice == nil {
		s.intakeNotice = &email.IntakeNotice{
			Config: s.config.IntakeNotice,
			Sender: s.EmailSender(),
		}
	}

	return s.intakeNotice
}

func (s *Container) Auth() *Auth {
	if s.auth == nil {
		s.auth = NewAuth(s.config.Admin)
	}

	return s.auth
}

func (s *Container) CatalogRepository() (*catalog.Repository, error) {
	if s.catalogRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		imageStorage, err := s.ImageStorage()
		if err != nil {
			return nil, err
		}

		s.catalogRepository = catalog.NewRepository(db, imageStorage)
	}

	return s.catalogRepository, nil
}

func (s *Container) ConsignmentsRepository() (*consignments.Repository, error) {
	if s.consignmentsRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		catalogRepository, err := s.CatalogRepository()
		if err != nil {
			return nil, err
		}

		imageStorage, err := s.ImageStorage()
		if err != nil {
			return nil, err
		}

		s.consignmentsRepository = consignments.NewRepository(db, catalogRepository, imageStorage)
	}

	return s.consignmentsRepository, nil
}

func (s *Container) ReviewsRepository() (*reviews.Repository, error) {
	if s.reviewsRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		s.reviewsRepository = reviews.NewRepository(db)
	}

	return s.reviewsRepository, nil
}

func (s *Container) AnalyticsRepository() (*analytics.Repository, error) {
	if s.analyticsRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		s.analyticsRepository = analytics.NewRepository(db)
	}

	return s.analyticsRepository, nil
}

func (s *Container) SiteConfigRepository() (*sitecfg.Repository, error) {
	if s.siteConfigRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		s.siteConfigRepository = sitecfg.NewRepository(db, s.Redis())
	}

	return s.siteConfigRepository, nil
}

func (s *Container) AdminREST() (*AdminREST, error) {
	catalogRepository, err := s.CatalogRepository()
	if err != nil {
		return nil, err
	}

	consignmentsRepository, err := s.ConsignmentsRepository()
	if err != nil {
		return nil, err
	}

	reviewsRepository, err := s.ReviewsRepository()
	if err != nil {
		return nil, err
	}

	analyticsRepository, err := s.AnalyticsRepository()
	if err != nil {
		return nil, err
	}

	siteConfigRepository, err := s.SiteConfigRepository()
	if err != nil {
		return nil, err
	}

	imageStorage, err := s.ImageStorage()
	if err != nil {
		return nil, err
	}

	return NewAdminREST(
		s.Auth(),
		catalogRepository,
		consignmentsRepository,
		reviewsRepository,
		analyticsRepository,
		siteConfigRepository,
		imageStorage,
	), nil
}

func (s *Container) PublicREST() (*PublicREST, error) {
	catalogRepository, err := s.CatalogRepository()
	if err != nil {
		return nil, err
	}

	consignmentsRepository, err := s.ConsignmentsRepository()
	if err != nil {
		return nil, err
	}

	reviewsRepository, err := s.ReviewsRepository()
	if err != nil {
		return nil, err
	}

	siteConfigRepository, err := s.SiteConfigRepository()
	if err != nil {
		return nil, err
	}

	return NewPublicREST(
		catalogRepository,
		consignmentsRepository,
		reviewsRepository,
		siteConfigRepository,
		s.IntakeNotice(),
	), nil
}

func (s *Container) PublicHTTPServer() (*http.Server, error) {
	if s.publicHTTPServer == nil {
		ginEngine := gin.New()
		ginEngine.Use(gin.Recovery(), MetricsMiddleware())

		if len(s.config.PublicRest.Cors.Origin) > 0 {
			corsConfig := cors.DefaultConfig()
			corsConfig.AllowOrigins = s.config.PublicRest.Cors.Origin
			corsConfig.AllowCredentials = true
			ginEngine.Use(cors.New(corsConfig))
		}

		s.Auth().SetupRouter(ginEngine)

		adminREST, err := s.AdminREST()
		if err != nil {
			return nil, err
		}

		adminREST.SetupRouter(ginEngine)

		publicREST, err := s.PublicREST()
		if err != nil {
			return nil, err
		}

		publicREST.SetupRouter(ginEngine)

		analyticsRepository, err := s.AnalyticsRepository()
		if err != nil {
			return nil, err
		}

		NewAnalyticsREST(analyticsRepository).SetupRouter(ginEngine)

		catalogRepository, err := s.CatalogRepository()
		if err != nil {
			return nil, err
		}

		NewSitemapREST(catalogRepository, s.config.PublicURL).SetupRouter(ginEngine)

		s.publicHTTPServer = &http.Server{
			Addr:              s.config.PublicRest.Listen,
			Handler:           ginEngine,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	return s.publicHTTPServer, nil
}

func (s *Container) PrivateHTTPServer() (*http.Server, error) {
	if s.privateHTTPServer == nil {
		ginEngine := gin.New()
		ginEngine.Use(gin.Recovery())

		SetupPrivateRouter(ginEngine)

		s.privateHTTPServer = &http.Server{
			Addr:              s.config.PrivateRest.Listen,
			Handler:           ginEngine,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	return s.privateHTTPServer, nil
}
