package main

import (
	"flag"
	"log"

	"github.com/go-redis/redis"

	"travelblog/auth"
	"travelblog/crud"
	"travelblog/http"
	"travelblog/notify"
	"travelblog/rank"
)

// main is the app's entry point.
func main() {
	// The "-prod" flag means we're running in production. In that case the
	// config file is required and the app will exit if it can't be read.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.Dsn)
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = ConfigurePool(db, config.Database.MaxIdleConns, config.Database.MaxOpenConns)
	must(err)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.App.Pepper, config.App.HMACKey),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
	)
	must(err)

	// The guard holds the one policy decision point for every mutation.
	guard := auth.NewGuard(config.App.AdminID)

	// Optional redis mirror of the like counters for the top-N endpoint.
	var rdb *redis.Client
	if config.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			DB:       config.Redis.DB,
			Password: config.Redis.Password,
		})
		if _, err := rdb.Ping().Result(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
	}
	ranking := rank.NewService(rdb)

	// Optional notification queue for contact messages.
	notifier, err := notify.NewPublisher(config.RabbitMQ.Url, config.RabbitMQ.Queue)
	must(err)
	defer notifier.Close()

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.App.CSRFKey, services, guard, ranking, notifier)
	server.Run(config.App.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
