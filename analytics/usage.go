package analytics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	ExecutedBuildCommand            = "executed_build_command"
	ExecutedResolutionReportCommand = "executed_resolution_report_command"
	ExecutedExportCommand           = "executed_export_command"
	ExecutedVersionCommand          = "executed_version_command"
	ErrorAnalyzingProject           = "error_analyzing_project"
)

var (
	PublicKey     string
	enableMetrics bool
)

// Init enables or disables telemetry for the process lifetime.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

func createEnvFile() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Println("Error getting user home directory:", err)
		return
	}
	envFile := filepath.Join(homeDir, ".symgraph", ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
			fmt.Println("Error creating directory:", err)
			return
		}
		env := map[string]string{
			"uuid": uuid.New().String(),
		}
		if err := godotenv.Write(env, envFile); err != nil {
			fmt.Println("Error writing to .env file:", err)
		}
	}
}

// LoadEnvFile ensures a per-user anonymous id exists and loads it into the
// process environment from ~/.symgraph/.env.
func LoadEnvFile() {
	createEnvFile()
	envFile := filepath.Join(os.Getenv("HOME"), ".symgraph", ".env")
	_ = godotenv.Load(envFile)
}

// ReportEvent sends a single anonymous usage event, a no-op when telemetry
// is disabled or no PublicKey has been compiled in.
func ReportEvent(event string) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	client, err := posthog.NewWithConfig(
		PublicKey,
		posthog.Config{Endpoint: "https://us.i.posthog.com"},
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer client.Close()

	if err := client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
	}); err != nil {
		fmt.Println(err)
	}
}
