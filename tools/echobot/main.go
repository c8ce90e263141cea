// Package main implements echobot, a small demonstration bot. It connects
// to a Pigeon server, greets users who say hi, and echoes a typing
// indicator while composing its reply. Settings come from a TOML file
// with a BOT_TOKEN environment override.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/pigeon-im/pigeon-go/pigeon"
)

type botConfig struct {
	Token     string `toml:"token"`
	BaseURL   string `toml:"base_url"`
	WSURL     string `toml:"ws_url"`
	Greeting  string `toml:"greeting"`
	Reconnect string `toml:"reconnect_interval"`
	Debug     bool   `toml:"debug"`
}

var (
	flagConfig = flag.String("config", "echobot.toml", "path to the TOML config file")
	flagDebug  = flag.Bool("debug", false, "enable debug logging")
)

func loadConfig(log zerolog.Logger, path string) botConfig {
	config := botConfig{Greeting: "hi, how are you?"}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to parse config file")
		}
	}
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		config.Token = token
	}
	if config.Token == "" {
		log.Fatal().Msg("no bot token: set token in the config file or the BOT_TOKEN environment variable")
	}
	return config
}

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)

	config := loadConfig(log, *flagConfig)
	if config.Debug || *flagDebug {
		log = log.Level(zerolog.DebugLevel)
	}

	clientConfig := pigeon.Config{
		Token:   config.Token,
		BaseURL: config.BaseURL,
		WSURL:   config.WSURL,
	}
	if config.Reconnect != "" {
		interval, err := time.ParseDuration(config.Reconnect)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid reconnect_interval")
		}
		clientConfig.ReconnectInterval = interval
	}

	client, err := pigeon.NewClient(clientConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build client")
	}
	client.SetLogger(log.With().Str("component", "client").Logger())

	var botUserID atomic.Int64

	client.OnAuthenticated(func(data pigeon.AuthenticatedData) {
		botUserID.CompareAndSwap(0, data.UserID)
	})

	client.OnReady(func() {
		log.Info().Msg("bot is ready")
	})

	client.OnNewMessage(func(message *pigeon.MessageEntity, data pigeon.MessageEventData) {
		if message.SenderID() == botUserID.Load() {
			return
		}
		if !strings.Contains(strings.ToLower(message.Content()), "hi") {
			return
		}

		if err := client.SetTyping(message.ChatID(), true); err != nil {
			log.Error().Err(err).Msg("failed to set typing")
			return
		}
		time.Sleep(time.Second)
		if err := message.Reply(config.Greeting); err != nil {
			log.Error().Err(err).Int64("chat_id", message.ChatID()).Msg("failed to reply")
		}
		if err := client.SetTyping(message.ChatID(), false); err != nil {
			log.Error().Err(err).Msg("failed to clear typing")
		}
	})

	client.OnDisconnect(func() {
		log.Warn().Msg("disconnected")
	})

	client.OnError(func(err error) {
		log.Error().Err(err).Msg("client error")
	})

	if err := client.Connect(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
