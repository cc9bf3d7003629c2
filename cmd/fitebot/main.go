/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mikeb26/fitebot/fite"
	"github.com/mikeb26/fitebot/internal"

	_ "embed"
)

type botConfig struct {
	Token            string `env:"DISCORD_BOT_TOKEN,required"`
	PublicKey        string `env:"DISCORD_PUBLIC_KEY,required"`
	AppID            string `env:"DISCORD_APP_ID,required"`
	CmdID            string `env:"DISCORD_CMD_ID"`
	RegisteredRoleID string `env:"DISCORD_REGISTERED_ROLE_ID"`
	ListenAddr       string `env:"LISTEN_ADDR" envDefault:":8080"`
}

var botCfg botConfig
var botPubKey ed25519.PublicKey
var client *discordgo.Session
var engine *fite.Engine

type TopLevelCommand string

const (
	FiteCmd TopLevelCommand = "fite"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	FiteCmd: fiteCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("fitebot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("fitebot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("fitebot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp = ephemeralResponse(fmt.Sprintf("unknown command '%v'",
				inter.ApplicationCommandData().Name))
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("fitebot.int: unimplemented interation type %v", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("fitebot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("fitebot.int: failed to write resp: err:%v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler)
	r.Post("/DiscordBot/Interaction", interactionHandler)

	return r
}

//go:embed lastupdate.hash
var lastCmdUpdateHash string

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand) bool {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Printf("fitebot.reg: failed to marshal cmd: %v", err)
		return false
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)
	hexString := hex.EncodeToString(hasher.Sum(nil))

	shouldUpdate := (hexString != lastCmdUpdateHash)
	if shouldUpdate {
		log.Printf("fitebot.reg: updating cmd reg; please update lastupdate.hash to %v",
			hexString)
	}

	return shouldUpdate
}

func registerSlashCommands() {
	cmd := fiteCommand()

	if botCfg.CmdID == "" {
		created, err := client.ApplicationCommandCreate(botCfg.AppID, "", cmd)
		if err != nil {
			log.Printf("fitebot.reg: failed to register %v: %v", cmd.Name, err)
			return
		}

		log.Printf("fitebot.reg: registered %v(cmdID:%v); set DISCORD_CMD_ID",
			created.Name, created.ID)
	} else if shouldUpdateCmdRegistration(cmd) {
		updated, err := client.ApplicationCommandEdit(botCfg.AppID, "",
			botCfg.CmdID, cmd)
		if err != nil {
			log.Printf("fitebot.reg: failed to update %v: %v", cmd.Name, err)
			return
		}

		log.Printf("fitebot.reg: updated %v(cmdID:%v)", updated.Name, updated.ID)
	}
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("fitebot.main: %v", err)
	}
	if err := env.Parse(&botCfg); err != nil {
		log.Fatalf("fitebot.main: failed to parse bot config: %v", err)
	}
	pubKeyBytes, err := hex.DecodeString(botCfg.PublicKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		log.Fatalf("fitebot.main: failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	client, err = discordgo.New("Bot " + botCfg.Token)
	if err != nil {
		log.Fatalf("fitebot.main: failed to initialize discord client: %v", err)
	}
	client.UserAgent = internal.UserAgent

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	var closeStore func() error
	engine, closeStore, err = internal.OpenEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("fitebot.main: failed to open engine: %v", err)
	}
	defer closeStore()

	go registerSlashCommands()

	server := &http.Server{
		Addr:         botCfg.ListenAddr,
		Handler:      newRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
	}
	go func() {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "localhost"
		}
		log.Printf("fitebot.main: starting server on %v%v", hostname,
			botCfg.ListenAddr)
		err = server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("fitebot.main: serve failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("fitebot.main: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("fitebot.main: shutdown failed: %v", err)
	}

	log.Printf("fitebot.main: exiting")
}
