package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
	}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, geminiProjectID, openaiAPIKey string) *LLM {
	return &LLM{
		provider:        provider,
		geminiProjectID: geminiProjectID,
		geminiLocation:  "us-central1",
		openaiAPIKey:    openaiAPIKey,
	}
}

// NewClassifierForTest creates a Classifier config for testing purposes
func NewClassifierForTest(indicatorPath string, allowOverride bool) *Classifier {
	return &Classifier{
		indicatorPath: indicatorPath,
		allowOverride: allowOverride,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewChunkingForTest creates a Chunking config for testing purposes
func NewChunkingForTest(size, overlap int) *Chunking {
	return &Chunking{
		size:    size,
		overlap: overlap,
	}
}
