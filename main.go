package main

import (
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// server bundles the services behind the HTTP handlers. Everything is
// constructed once per process; no package-level mutable state.
type server struct {
	cfg    *Config
	logger *slog.Logger
	db     *sql.DB
	rdb    *redis.Client

	wallet   *walletService
	agents   *agentRegistry
	journal  *journalService
	finance  *financeService
	habits   *habitService
	market   *marketService
	echo     *echoService
	identity *identityService
	pulse    *pulseService
	explorer *explorerClient
	analysis *analysisClient
}

func newServer(cfg *Config, logger *slog.Logger, db *sql.DB, rdb *redis.Client) (*server, error) {
	loc := time.Local
	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		parsed, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		loc = parsed
	}

	s := &server{cfg: cfg, logger: logger, db: db, rdb: rdb}
	s.wallet = newWalletService(rdb, logger)
	s.agents = newAgentRegistry(s.wallet)
	s.journal = newJournalService(rdb, s.agents, cfg.StoreMaxValueBytes, logger)
	s.finance = newFinanceService(rdb, s.agents, cfg.StoreMaxValueBytes, logger)
	s.habits = newHabitService(rdb, loc, cfg.StoreMaxValueBytes, logger)
	s.market = newMarketService(db, s.wallet)
	s.echo = newEchoService(rdb, logger)
	s.identity = newIdentityService()
	s.pulse = newPulseService(rdb, s.habits, s.finance, logger)
	s.explorer = newExplorerClient(cfg.ExplorerURL, cfg.ExplorerProjectID)
	s.analysis = newAnalysisClient(cfg.AnalysisURL)
	return s, nil
}

func (s *server) routes(r *gin.Engine) {
	r.GET("/health", s.healthCheck)

	api := r.Group("/api")

	api.GET("/journal", s.getJournal)
	api.POST("/journal", s.addJournalEntry)
	api.DELETE("/journal/:id", s.deleteJournalEntry)

	api.GET("/transactions", s.getTransactions)
	api.POST("/transactions", s.addTransaction)
	api.DELETE("/transactions/:id", s.deleteTransaction)
	api.GET("/finance/insights", s.getFinanceInsights)

	api.GET("/habits", s.getHabits)
	api.POST("/habits", s.addHabit)
	api.POST("/habits/generate", s.generateHabits)
	api.POST("/habits/:id/toggle", s.toggleHabit)
	api.DELETE("/habits/:id", s.deleteHabit)
	api.GET("/habits/insights", s.getHabitInsights)

	api.GET("/wallet", s.getWallet)
	api.POST("/wallet/deposit", s.depositFunds)
	api.POST("/wallet/fee", s.payFee)
	api.GET("/wallet/balance/:address", s.getChainBalance)
	api.GET("/wallet/transactions/:address", s.getChainTransactions)

	api.GET("/bounties", s.getBounties)
	api.POST("/bounties/:id/contribute", s.contributeToBounty)

	api.GET("/echo", s.getEchoFeed)
	api.POST("/echo", s.postEchoMessage)
	api.POST("/echo/:id/vibes", s.sendVibes)

	api.POST("/identity/credentials", s.issueCredential)
	api.POST("/identity/proofs", s.generateProof)
	api.POST("/identity/verify", s.verifyProof)

	api.GET("/pulse", s.getSoul)
	api.POST("/pulse/evolve", s.evolveSoul)
	api.PUT("/pulse/sleep", s.setSleep)

	api.POST("/mood/analyze", s.analyzeMood)
	api.GET("/meme", s.getMeme)
	api.POST("/transcribe", s.transcribeAudio)
	api.POST("/life/insight", s.getLifeInsight)
}

func main() {
	// Check for migrate command
	migrateCmd := flag.Bool("migrate", false, "Run database migration and seed studies")
	seedDemoCmd := flag.Bool("seed-demo", false, "Seed demo journal, finance and habit data (idempotent)")
	flag.Parse()

	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *migrateCmd {
		if err := setupDatabase(cfg); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
		os.Exit(0)
	}

	logger := newLogger(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis; it backs every record store so there is no
	// running without it.
	rdb, err := newRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer rdb.Close()

	srv, err := newServer(cfg, logger, db, rdb)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	if *seedDemoCmd {
		if err := seedDemoData(srv); err != nil {
			log.Fatalf("Seeding demo data failed: %v", err)
		}
		log.Println("Demo data seeded")
		os.Exit(0)
	}

	// Setup Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	srv.routes(r)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
