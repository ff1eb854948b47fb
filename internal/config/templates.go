package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Market Intelligence Pipeline Configuration

[pipeline]
# Maximum articles analyzed per cycle
max_per_cycle = 10
# Concurrent analysis fan-out size
analysis_batch_size = 5
# Seconds between orchestrator cycles
poll_interval_seconds = 300
# Minutes a ticker+minute signal key is remembered for dedup (loaded but not
# read: the pipeline's dedup window is fixed at 30 minutes)
dedup_window_minutes = 30

[cluster]
# Minutes within which articles can join the same cluster
time_window_minutes = 60
# Minimum articles required to form a cluster
min_size = 2
# Hours after which a cluster is evicted
max_age_hours = 48

[signal]
# Base position size as a fraction of capital
base_position_size = 0.05
# Maximum position size as a fraction of capital
max_position_size = 0.10
# Minimum analysis confidence to generate a signal
min_confidence = 0.60
# Minimum sentiment magnitude to generate a signal
sentiment_threshold = 0.30
# Minimum impact magnitude to generate a signal
impact_threshold = 0.50
# Allow signals to flag themselves for automatic execution
enable_auto_execute = false

[validator]
# Maximum trades validated per day
daily_trade_limit = 20
# Daily loss percentage that halts validation
daily_loss_limit_pct = 5.0
# Consecutive losses after which new signals are rejected
max_consecutive_losses = 5
# Reject signals validated outside market hours
market_hours_only = true

[shadow]
# Days a rejected proposal is tracked as a shadow trade
tracking_days = 7
# Maximum shadow trade age in days (loaded but not read by any component)
max_age_days = 30

# The [security] and [ui] settings are loaded but not read by any component.
[security]
# Enable read-only mode (blocks all proposal persistence)
read_only_mode = false
# Session timeout duration (e.g., "8h", "30m")
session_timeout = "8h"
# Enable audit logging for constitutional decisions
audit_enabled = true
# Enable strict input validation
strict_validation = true

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
# Time format
time_format = "15:04:05"

[notifications]
# Enable notifications
enabled = false
# Notification level: all, proposals_only, errors_only
level = "all"

[notifications.webhook]
enabled = false
url = ""

[notifications.telegram]
enabled = false
bot_token = ""
chat_id = ""

[notifications.email]
enabled = false
smtp_host = ""
smtp_port = 587
username = ""
password = ""
from = ""
to = ""
`

const credentialsTemplate = `# Market Intelligence Pipeline Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
model = "gpt-4o"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
