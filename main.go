package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	flag "github.com/spf13/pflag"

	"github.com/sahil-voice-agent/server/internal/agent/knowledge"
	"github.com/sahil-voice-agent/server/internal/agent/memory"
	"github.com/sahil-voice-agent/server/internal/agent/model"
	"github.com/sahil-voice-agent/server/internal/agent/pipeline"
	"github.com/sahil-voice-agent/server/internal/agent/repo"
	"github.com/sahil-voice-agent/server/internal/agent/router"
	"github.com/sahil-voice-agent/server/internal/agent/tools"
	"github.com/sahil-voice-agent/server/internal/core"
	"github.com/sahil-voice-agent/server/internal/speech"
	logx "github.com/sahil-voice-agent/server/pkg/logger"
	pkgredis "github.com/sahil-voice-agent/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Response     model.ResponseModelConfig
	Persona      model.PersonaConfig
	Conversation model.ConversationConfig
	Knowledge    model.KnowledgeConfig
	Search       model.SearchConfig
	Speech       model.SpeechConfig
}

func main() {
	voiceMode := flag.Bool("voice", false, "voice mode: read audio file paths from stdin and speak replies")
	conversationID := flag.String("conversation", uuid.NewString(), "conversation id to continue")
	flag.Parse()

	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Conversation.TTL).Msg("invalid CONVERSATION_TTL")
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()

	client, err := pipeline.NewGenaiClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create Gemini client")
	}

	embedder := knowledge.NewGeminiEmbedder(client, cfg.Knowledge.EmbeddingModel)
	selfIndex := buildIndex(ctx, "self-profile", cfg.Knowledge.SelfProfilePath, cfg.Knowledge, embedder)
	orgIndex := buildIndex(ctx, "org-profile", cfg.Knowledge.OrgProfilePath, cfg.Knowledge, embedder)

	generators, err := pipeline.NewGenerators(ctx, client, cfg.Response, tools.NewWebSearchTool(cfg.Search))
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build generators")
	}

	agent, err := pipeline.New(pipeline.Config{
		Classifier: router.NewClassifier(cfg.Persona),
		Assembler:  knowledge.NewAssembler(selfIndex, orgIndex, cfg.Knowledge.TopK),
		Memory:     memory.NewManager(repo.NewRedisConversationRepository(rdb, ttl), cfg.Conversation),
		Direct:     generators.Direct,
		WebSearch:  generators.WebSearch,
		Persona:    cfg.Persona,
		ModelName:  cfg.Response.Model,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build response pipeline")
	}

	logx.Info().Str("conversation_id", *conversationID).Bool("voice", *voiceMode).Msg("agent ready")

	if *voiceMode {
		runVoiceLoop(ctx, agent, speech.NewOpenAISpeech(cfg.Speech), *conversationID)
	} else {
		runChatLoop(ctx, agent, *conversationID)
	}
}

func buildIndex(ctx context.Context, name, path string, cfg model.KnowledgeConfig, embedder *knowledge.GeminiEmbedder) retriever.Retriever {
	passages, err := knowledge.LoadPassages(path, cfg.ChunkSize)
	if err != nil {
		logx.Fatal().Err(err).Str("path", path).Msg("failed to load profile document")
	}
	index, err := knowledge.BuildProfileIndex(ctx, name, passages, embedder, cfg.TopK)
	if err != nil {
		logx.Fatal().Err(err).Str("index", name).Msg("failed to build profile index")
	}
	return index
}

// runChatLoop reads one query per line and prints the reply. Empty
// lines are dropped here so the pipeline never sees an empty query.
func runChatLoop(ctx context.Context, agent *pipeline.Pipeline, conversationID string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			fmt.Print("> ")
			continue
		}

		reply, err := agent.Respond(ctx, model.QueryInput{ConversationID: conversationID, Query: query})
		if err != nil {
			fmt.Printf("error: %v\n> ", err)
			continue
		}
		fmt.Printf("%s\n> ", reply)
	}
}

// runVoiceLoop reads one audio file path per line, transcribes it,
// responds and writes the spoken reply next to the input file.
func runVoiceLoop(ctx context.Context, agent *pipeline.Pipeline, sp *speech.OpenAISpeech, conversationID string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("audio file> ")
	for scanner.Scan() {
		path := strings.TrimSpace(scanner.Text())
		if path == "" {
			fmt.Print("audio file> ")
			continue
		}

		query, err := transcribeFile(ctx, sp, path)
		if err != nil {
			fmt.Printf("error: %v\naudio file> ", err)
			continue
		}
		if query == "" {
			fmt.Print("no speech detected\naudio file> ")
			continue
		}
		fmt.Printf("you: %s\n", query)

		reply, err := agent.Respond(ctx, model.QueryInput{ConversationID: conversationID, Query: query})
		if err != nil {
			fmt.Printf("error: %v\naudio file> ", err)
			continue
		}
		fmt.Printf("agent: %s\n", reply)

		replyPath := path + ".reply.mp3"
		if err := synthesizeToFile(ctx, sp, reply, replyPath); err != nil {
			fmt.Printf("error: %v\naudio file> ", err)
			continue
		}
		fmt.Printf("spoken reply saved to %s\naudio file> ", replyPath)
	}
}

func transcribeFile(ctx context.Context, sp *speech.OpenAISpeech, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return sp.Transcribe(ctx, f)
}

func synthesizeToFile(ctx context.Context, sp *speech.OpenAISpeech, text, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return sp.Synthesize(ctx, text, f)
}
