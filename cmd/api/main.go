package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"tradepost/internal/adapter/api"
	"tradepost/internal/adapter/api/handler"
	apimiddleware "tradepost/internal/adapter/api/middleware"
	"tradepost/internal/adapter/api/router"
	"tradepost/internal/adapter/repository"
	"tradepost/internal/infrastructure/firebase"
	"tradepost/internal/infrastructure/ratelimit"
	"tradepost/internal/infrastructure/storage"
	"tradepost/internal/infrastructure/websocket"
	"tradepost/internal/usecase"
	"tradepost/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	// Service account JSON in the environment wins (for deployed
	// environments); a file path is the local development fallback.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}

		log.Printf("Using Firebase service account from file: %s", credentialsPath)
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	threadRepo := repository.NewFirestoreThreadRepository(firestoreClient)

	authClient := firebase.NewAuthClient(fbAuth, cfg.FirebaseAPIKey)

	hub := websocket.NewHub()

	authUseCase := usecase.NewAuthUseCase(userRepo, authClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo, userRepo, storageClient)
	chatUseCase := usecase.NewChatUseCase(threadRepo, listingRepo, userRepo, hub)
	adminUseCase := usecase.NewAdminUseCase(userRepo, listingRepo, threadRepo)

	wsRateLimiter := ratelimit.NewRateLimiter()
	wsRateLimiter.StartCleanupRoutine()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase, cfg.PasswordResetURL),
		Listing:   handler.NewListingHandler(listingUseCase),
		Chat:      handler.NewChatHandler(chatUseCase),
		Admin:     handler.NewAdminHandler(adminUseCase),
		WebSocket: handler.NewWebSocketHandler(hub, authClient, chatUseCase, wsRateLimiter),
		Health:    handler.NewHealthHandler(),
	}

	router.Setup(e, handlers, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
