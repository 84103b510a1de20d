package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/pliu/moneygram/internal/account"
	"github.com/pliu/moneygram/internal/auth"
	"github.com/pliu/moneygram/internal/chat"
	"github.com/pliu/moneygram/internal/config"
	"github.com/pliu/moneygram/internal/handlers"
	"github.com/pliu/moneygram/internal/middleware"
	"github.com/pliu/moneygram/internal/store"
	"github.com/pliu/moneygram/internal/store/memstore"
	"github.com/pliu/moneygram/internal/store/sqlstore"
	"github.com/pliu/moneygram/internal/ws"
)

var addr = flag.String("addr", "", "http service address (overrides ADDR)")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()
	if *addr != "" {
		cfg.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize key-value backend
	var kv store.KV
	if cfg.DBDriver == "memory" {
		kv = memstore.New()
	} else {
		db, err := sqlstore.New(cfg.DBDriver, cfg.DBSource)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		kv = db
	}
	st := store.New(kv)

	creds, err := account.CredentialsFor(cfg.PasswordScheme)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize WebSocket Hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	accounts := account.New(st, account.Options{
		Credentials:    creds,
		BootstrapAdmin: cfg.BootstrapAdmin,
	})
	chats := chat.New(st, accounts, chat.Options{
		ReplyDelay:            cfg.ReplyDelay,
		Notifier:              hub,
		CancelRepliesOnSwitch: cfg.CancelRepliesOnSwitch,
	})
	defer chats.Close()
	if _, err := chats.Bootstrap(ctx); err != nil {
		log.Fatal(err)
	}

	cookies := auth.NewCookieSigner(cfg.CookieSecret, cfg.TokenTTL)
	tokens := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	authn := &middleware.Authenticator{Cookies: cookies, Tokens: tokens}

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)

	handlers.Register(r, authn,
		&handlers.AuthHandler{Accounts: accounts, Cookies: cookies, Tokens: tokens},
		&handlers.ChatHandler{Chats: chats},
		&handlers.AdminHandler{Accounts: accounts, Chats: chats, Hub: hub},
	)

	// WebSocket Endpoint
	r.Handle("/ws", authn.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, w, r, middleware.UserIDFromContext(r.Context()))
	})))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.StaticDir, "index.html"))
	})

	// Serve static files with cache-busting headers for development
	r.PathPrefix("/").Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".css") || strings.HasSuffix(r.URL.Path, ".js") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		http.FileServer(http.Dir(cfg.StaticDir)).ServeHTTP(w, r)
	}))

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Println("Starting server on", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
