package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bathingculture/books/internal/auth"
	"github.com/bathingculture/books/internal/checkin"
	checkinStore "github.com/bathingculture/books/internal/checkin/store"
	"github.com/bathingculture/books/internal/config"
	"github.com/bathingculture/books/internal/counterparty"
	counterpartyStore "github.com/bathingculture/books/internal/counterparty/store"
	"github.com/bathingculture/books/internal/database"
	"github.com/bathingculture/books/internal/distribution"
	booksHttp "github.com/bathingculture/books/internal/http"
	authHandler "github.com/bathingculture/books/internal/http/auth"
	capitalHandler "github.com/bathingculture/books/internal/http/capital"
	checkinHandler "github.com/bathingculture/books/internal/http/checkin"
	counterpartyHandler "github.com/bathingculture/books/internal/http/counterparty"
	distributionHandler "github.com/bathingculture/books/internal/http/distribution"
	txHandler "github.com/bathingculture/books/internal/http/transaction"
	"github.com/bathingculture/books/internal/mercury"
	"github.com/bathingculture/books/internal/transaction"
	txStore "github.com/bathingculture/books/internal/transaction/store"
	"github.com/bathingculture/books/internal/user"
	userStore "github.com/bathingculture/books/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bank := mercury.NewClient(cfg.Mercury.BaseURL, cfg.Mercury.Token)
	tokens := auth.NewTokens(cfg.Session.Secret, cfg.Session.TTL)

	accounts := transaction.Accounts{
		Income: cfg.Mercury.IncomeAccount,
		LLC:    cfg.Mercury.LLCAccount,
		Studio: cfg.Mercury.StudioAccount,
		Start:  cfg.Mercury.TransactionStart,
	}

	var (
		userService         = user.NewService(userStore.New(db))
		checkinService      = checkin.NewService(checkinStore.New(db))
		counterpartyService = counterparty.NewService(counterpartyStore.New(db))
		markedStore         = txStore.New(db)
		txService           = transaction.NewService(markedStore, bank, counterpartyService, accounts)
		distService         = distribution.NewService(bank, markedStore,
			cfg.Mercury.LLCAccount, cfg.Mercury.IncomeAccount, cfg.Mercury.SelfRecipient)
	)

	var (
		authH         = authHandler.NewHandler(userService, tokens, true)
		checkinH      = checkinHandler.NewHandler(checkinService)
		txH           = txHandler.NewHandler(txService)
		counterpartyH = counterpartyHandler.NewHandler(counterpartyService)
		capitalH      = capitalHandler.NewHandler(checkinService, txService, userService)
		distH         = distributionHandler.NewHandler(distService)
	)

	router := booksHttp.New(tokens, userService, authH, checkinH, txH, counterpartyH, capitalH, distH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
