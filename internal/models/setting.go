package models

import "time"

// Setting is a key-value configuration entry.
// The embedding layer reads these fresh on every call, so a change takes
// effect on the very next operation without a restart.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"size:1000" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Setting) TableName() string {
	return "settings"
}

// Well-known setting keys.
const (
	SettingEmbeddingProvider    = "embedding_provider"
	SettingEmbeddingModel       = "embedding_model"
	SettingOpenAIAPIKey         = "openai_api_key"
	SettingOpenAIBaseURL        = "openai_base_url"
	SettingOllamaBaseURL        = "ollama_base_url"
	SettingOllamaEmbeddingModel = "ollama_embedding_model"
)
