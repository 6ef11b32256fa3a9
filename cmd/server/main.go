package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"

	"warfront/internal/network"
	"warfront/internal/services/auth"
	"warfront/internal/services/cluster"
	"warfront/internal/services/events"
	"warfront/internal/session"
)

// ============================================================================
// Constantes de Configuração Padrão
// ============================================================================
const (
	defaultServiceName = "warfront-session"
	defaultServicePort = 8080 // WebSocket
	defaultAPIPort     = 8081 // HTTP: /health + /api/auth
	defaultJWTSecret   = "your-secret-key"
)

// ============================================================================
// Lógica de Configuração
// ============================================================================

// Config armazena todas as configurações da aplicação.
type Config struct {
	ServiceName string
	ServicePort int
	APIPort     int

	// Integrações opcionais: vazias, o servidor roda standalone.
	ConsulAddr string
	NatsURL    string
	RedisAddr  string

	JWTSecret string

	ForfeitOnDisconnect bool
	StrictSessions      bool
}

// loadConfig carrega a configuração a partir de variáveis de ambiente.
func loadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName: envOr("SERVICE_NAME", defaultServiceName),
		ConsulAddr:  os.Getenv("CONSUL_HTTP_ADDR"),
		NatsURL:     os.Getenv("NATS_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   envOr("JWT_SECRET", defaultJWTSecret),
	}

	var err error
	cfg.ServicePort, err = envPort("SERVICE_PORT", defaultServicePort)
	if err != nil {
		return nil, err
	}
	cfg.APIPort, err = envPort("API_PORT", defaultAPIPort)
	if err != nil {
		return nil, err
	}

	cfg.ForfeitOnDisconnect = os.Getenv("FORFEIT_ON_DISCONNECT") == "true"
	cfg.StrictSessions = os.Getenv("STRICT_SESSIONS") == "true"

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envPort(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return port, nil
}

// ============================================================================
// Bootstrap
// ============================================================================

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	color.Cyan("warfront session server")
	if cfg.JWTSecret == defaultJWTSecret {
		color.Yellow("JWT_SECRET not set, using the dev default, do not deploy like this")
	}

	// Barramento de eventos de partida (opcional).
	var pub *events.Publisher
	if cfg.NatsURL != "" {
		pub, err = events.Connect(cfg.NatsURL)
		if err != nil {
			// O jogo funciona sem auditoria; só avisa e segue.
			color.Yellow("match event bus unavailable: %v", err)
		}
		defer pub.Close()
	}

	// Núcleo de sessões: registro, matchmaker e gateway.
	registry := session.NewRegistry(!cfg.StrictSessions)
	go registry.Run()

	matchmaker := session.NewMatchmaker(registry, pub)
	go matchmaker.Run()

	gateway := session.NewManager(registry, matchmaker, session.Config{
		ForfeitOnDisconnect: cfg.ForfeitOnDisconnect,
	})

	// Serviço de contas: Redis quando configurado, memória caso contrário.
	var store auth.Store
	if cfg.RedisAddr != "" {
		rs, err := auth.NewRedisStore(context.Background(), cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		store = rs
		color.Green("user store: redis at %s", cfg.RedisAddr)
	} else {
		store = auth.NewMemoryStore()
		color.Yellow("user store: in-memory (accounts are lost on restart)")
	}

	authAPI := auth.NewAPI(auth.NewService(store, []byte(cfg.JWTSecret)))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "activeSessions": registry.Len()})
	})
	authAPI.RegisterRoutes(router)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		log.Printf("[API] http server listening on %s", addr)
		if err := router.Run(addr); err != nil {
			log.Fatalf("api server error: %v", err)
		}
	}()

	// Registro no Consul só quando há um agente para falar.
	if cfg.ConsulAddr != "" {
		err := cluster.Register(cluster.Registration{
			ServiceName: cfg.ServiceName,
			ServicePort: cfg.ServicePort,
			HealthPort:  cfg.APIPort,
			ConsulAddr:  cfg.ConsulAddr,
		})
		if err != nil {
			log.Fatalf("consul error: %v", err)
		}
	}

	server := network.NewServer(gateway)
	color.Green("matchmaking open on ws://0.0.0.0:%d/ws", cfg.ServicePort)
	if err := server.Listen(fmt.Sprintf(":%d", cfg.ServicePort)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
