package main

import (
	bookinghandler "github.com/ksquareincmx/conference-server-sub000/internal/bookings/handler"
	bookingrepo "github.com/ksquareincmx/conference-server-sub000/internal/bookings/repository"
	bookingservice "github.com/ksquareincmx/conference-server-sub000/internal/bookings/service"
	bookingvalidator "github.com/ksquareincmx/conference-server-sub000/internal/bookings/validator"
	roomhandler "github.com/ksquareincmx/conference-server-sub000/internal/rooms/handler"
	roomrepo "github.com/ksquareincmx/conference-server-sub000/internal/rooms/repository"
	roomservice "github.com/ksquareincmx/conference-server-sub000/internal/rooms/service"
	roomvalidator "github.com/ksquareincmx/conference-server-sub000/internal/rooms/validator"
	"github.com/ksquareincmx/conference-server-sub000/pkg/app"
	"github.com/ksquareincmx/conference-server-sub000/pkg/calendar"
	"github.com/ksquareincmx/conference-server-sub000/pkg/config"
	"github.com/ksquareincmx/conference-server-sub000/pkg/events"
)

const ServiceName = "conference-server"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting conference server")

	roomSvc, bookingSvc, publisher := initServices(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		roomhandler.NewRoomHandler(roomSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (roomservice.RoomService, bookingservice.BookingService, events.Publisher) {
	roomSvc := roomservice.NewRoomService(
		roomrepo.NewMongoRoomRepository(cfg),
		roomvalidator.NewRoomValidator(),
		cfg,
	)

	calendarClient := calendar.NewClient(cfg.CalendarBaseURL, cfg.CalendarID, cfg.Log)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
		}
		publisher = kafkaPublisher
		cfg.Log.Info("Kafka event publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		cfg.Log.Info("No Kafka brokers configured, event publishing disabled")
	}

	bookingSvc := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewRoomLockRepository(cfg),
		bookingrepo.NewMongoAttendeeRepository(cfg),
		bookingvalidator.NewBookingValidator(cfg.Log),
		roomSvc,
		calendarClient,
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return roomSvc, bookingSvc, publisher
}
