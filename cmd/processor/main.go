package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/whatsapp-ledger-assistant/internal/assistant/consumer"
	"github.com/whatsapp-ledger-assistant/internal/assistant/extractor"
	"github.com/whatsapp-ledger-assistant/internal/assistant/pipeline"
	"github.com/whatsapp-ledger-assistant/internal/assistant/reportgen"
	"github.com/whatsapp-ledger-assistant/internal/assistant/responder"
	"github.com/whatsapp-ledger-assistant/internal/assistant/service"
	"github.com/whatsapp-ledger-assistant/internal/config"
	"github.com/whatsapp-ledger-assistant/internal/data/mongo"
	"github.com/whatsapp-ledger-assistant/internal/data/postgres"
	"github.com/whatsapp-ledger-assistant/internal/logger"
	"github.com/whatsapp-ledger-assistant/internal/platform/messaging/consumers"
	"github.com/whatsapp-ledger-assistant/internal/platform/messaging/producers"
	"github.com/whatsapp-ledger-assistant/internal/platform/oracle"
	"github.com/whatsapp-ledger-assistant/internal/platform/persistence"
	"github.com/whatsapp-ledger-assistant/internal/platform/whatsapp"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Message Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	messageLogRepo := mongo.NewMessageLogRepository(log, mongoDB.Database())

	// Initialize the Gemini oracle and the WhatsApp sender
	geminiClient, err := oracle.NewGeminiClient(appCtx, log, &cfg.Gemini)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	whatsappClient := whatsapp.NewClient(log, &cfg.WhatsApp)

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler should be nil-safe.

	// Assemble the message pipeline
	messagePipeline := pipeline.NewPipeline(
		log,
		userRepo,
		extractor.NewExtractor(log, geminiClient),
		ledgerRepo,
		reportgen.NewGenerator(log, geminiClient),
		responder.NewResponder(log, geminiClient),
		whatsappClient,
		messageLogRepo,
	)

	// Initialize processing service backed by a worker pool
	processingService, err := service.NewWorkerPoolProcessingService(
		messagePipeline,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize message event handler
	messageEventHandler := consumer.NewMessageEventHandler(
		log,
		processingService,
		dlqProducer,
	)

	// Create error channel for service errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.InboundTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.InboundTopic, cfg.Kafka.ConsumerGroup, messageEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shut down the worker pool so in-flight messages finish their replies
	log.Info("Shutting down worker pool", "running_workers", processingService.Running())
	processingService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Message Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Message Processor shutdown completed with errors")
	} else {
		log.Info("Message Processor shutdown completed successfully")
	}
}
