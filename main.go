package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourguide/auth"
	"tourguide/booking"
	"tourguide/chat"
	"tourguide/config"
	"tourguide/db"
	"tourguide/events"
	"tourguide/hotels"
	"tourguide/middleware"
	"tourguide/mq"
	"tourguide/ratelim"
	"tourguide/rdx"
	"tourguide/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	if err := db.CreateIndexes(ctx); err != nil {
		log.Printf("Failed to create indexes: %v", err)
	}

	// Redis is optional: without it hotel lists are not cached, failed
	// chat/registration writes are not spooled and booking events are off.
	var (
		cache     rdx.Cache = rdx.NopCache{}
		publisher booking.Publisher
		stats     booking.AttractionStats
		spool     *rdx.Spool
		broker    *mq.Broker
	)
	conn, err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, running without cache, spool and events: %v", err)
	} else {
		cache = rdx.NewRedisCache(conn)
		spool = rdx.NewSpool(conn)
		broker = mq.NewBroker(conn)
		publisher, stats = broker, broker
	}

	verifier := middleware.NewJWTVerifier(cfg.JWTSecret)
	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst)
	liveFeed := booking.NewLiveFeed()

	bookingSvc := booking.NewService(booking.NewMongoStore(db.BookingsCollection), verifier, publisher, cfg.QRSize)
	hotelSvc := hotels.NewService(hotels.NewMongoStore(db.HotelsCollection), cache, cfg.HotelCacheTTL)
	authSvc := auth.NewService(auth.NewMongoUserStore(db.UserCollection), verifier)

	chatStore := chat.NewMongoStore(db.ChatsCollection)
	regStore := events.NewMongoStore(db.RegistrationsCollection)
	var chatSpool chat.Spooler
	var regSpool events.Spooler
	if spool != nil {
		chatSpool, regSpool = spool, spool
		spool.Register(chat.SpoolName, rdx.JSONSink(chatStore.Insert))
		spool.Register(events.SpoolName, rdx.JSONSink(regStore.Insert))
	}
	var llm chat.Responder
	if cfg.GeminiAPIKey != "" {
		llm = chat.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		log.Println("GEMINI_API_KEY not set; chat will use fallback replies")
	}
	chatSvc := chat.NewService(chatStore, llm, chatSpool)
	eventSvc := events.NewService(regStore, regSpool)

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Verifier:    verifier,
		RateLimiter: rateLimiter,
		Auth:        auth.NewHandler(authSvc),
		Bookings:    booking.NewHandler(bookingSvc, stats),
		LiveFeed:    liveFeed,
		Hotels:      hotels.NewHandler(hotelSvc),
		Chat:        chat.NewHandler(chatSvc),
		Events:      events.NewHandler(eventSvc),
	})

	// background workers
	go rateLimiter.RunCleanup(time.Minute, 10*time.Minute, ctx.Done())
	if spool != nil {
		go spool.Run(ctx, cfg.SpoolFlushInterval)
	}
	if broker != nil {
		worker, err := broker.SubscribeBookings(ctx)
		if err != nil {
			log.Printf("Booking events disabled: %v", err)
		} else {
			go worker.Run(ctx, liveFeed.Broadcast)
		}
	}

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.Logging(middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing live booking feed...")
		liveFeed.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	if spool != nil {
		spool.FlushOnce(shutdownCtx)
	}
	closeRedis(conn)
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}

func closeRedis(conn *redis.Client) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		log.Printf("Redis close: %v", err)
	}
}
