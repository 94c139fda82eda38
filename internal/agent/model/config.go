package model

// ================ Config ================

// PersonaConfig names the person the agent speaks as and the company it
// represents. The names also feed the keyword router.
type PersonaConfig struct {
	SubjectName string `envconfig:"PERSONA_SUBJECT_NAME" default:"Sahil Khan"`
	OrgName     string `envconfig:"PERSONA_ORG_NAME" default:"100x"`
	FounderName string `envconfig:"PERSONA_FOUNDER_NAME" default:"Nik Shah"`
}

type ConversationConfig struct {
	TTL        string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxHistory int    `envconfig:"CONVERSATION_MAX_HISTORY" default:"4"`
}

type ResponseModelConfig struct {
	Model         string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens     int     `envconfig:"RESPONSE_MAX_TOKENS" default:"180"`
	Temperature   float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.3"`
	AgentMaxSteps int     `envconfig:"RESPONSE_AGENT_MAX_STEPS" default:"6"`
}

type KnowledgeConfig struct {
	SelfProfilePath string `envconfig:"SELF_PROFILE_PATH" default:"data/sahil_profile.pdf"`
	OrgProfilePath  string `envconfig:"ORG_PROFILE_PATH" default:"data/100x_profile.pdf"`
	EmbeddingModel  string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`
	TopK            int    `envconfig:"KNOWLEDGE_TOP_K" default:"2"`
	ChunkSize       int    `envconfig:"KNOWLEDGE_CHUNK_SIZE" default:"800"`
}

type SearchConfig struct {
	APIKey     string `envconfig:"TAVILY_API_KEY"`
	BaseURL    string `envconfig:"TAVILY_BASE_URL" default:"https://api.tavily.com"`
	MaxResults int    `envconfig:"SEARCH_MAX_RESULTS" default:"3"`
	Timeout    int    `envconfig:"SEARCH_TIMEOUT" default:"10"`
}

type SpeechConfig struct {
	APIKey   string `envconfig:"OPENAI_API_KEY"`
	BaseURL  string `envconfig:"OPENAI_BASE_URL"`
	STTModel string `envconfig:"SPEECH_STT_MODEL" default:"whisper-1"`
	TTSModel string `envconfig:"SPEECH_TTS_MODEL" default:"gpt-4o-mini-tts"`
	Voice    string `envconfig:"SPEECH_TTS_VOICE" default:"alloy"`
	Language string `envconfig:"SPEECH_STT_LANGUAGE" default:"en"`
}
