package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/config"
	"github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/internal/infrastructure/sensor"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client

	scanner *sensor.Scanner

	customerRepo repository.CustomerRepository
	merchantRepo repository.MerchantRepository
	ratingRepo   repository.RatingRepository
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func SetScanner(s *sensor.Scanner) { scanner = s }
func GetScanner() *sensor.Scanner  { return scanner }

func SetCustomerRepo(r repository.CustomerRepository) { customerRepo = r }
func GetCustomerRepo() repository.CustomerRepository  { return customerRepo }
func SetMerchantRepo(r repository.MerchantRepository) { merchantRepo = r }
func GetMerchantRepo() repository.MerchantRepository  { return merchantRepo }
func SetRatingRepo(r repository.RatingRepository)     { ratingRepo = r }
func GetRatingRepo() repository.RatingRepository      { return ratingRepo }
