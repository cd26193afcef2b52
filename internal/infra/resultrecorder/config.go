package resultrecorder

import (
	"os"
)

type Config struct {
	Disabled bool

	// CSVPath, when set, appends every record to a CSV file as well.
	CSVPath string

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	BigQueryProjectID       string
	BigQueryDataset         string
	BigQueryTable           string
	BigQueryCredentialsFile string
}

func LoadConfig() *Config {
	cfg := &Config{
		Disabled: os.Getenv("ANALYSIS_RESULTS_DISABLED") == "true",
		CSVPath:  os.Getenv("ANALYSIS_RESULTS_CSV_PATH"),

		InfluxDBURL:    getEnvOrDefault("INFLUXDB_URL", "http://localhost:8086"),
		InfluxDBToken:  os.Getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:    os.Getenv("INFLUXDB_ORG"),
		InfluxDBBucket: getEnvOrDefault("INFLUXDB_BUCKET", "edf_analysis"),

		BigQueryProjectID:       getEnvOrDefault("BIGQUERY_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		BigQueryDataset:         getEnvOrDefault("BIGQUERY_DATASET", "edf_analysis"),
		BigQueryTable:           getEnvOrDefault("BIGQUERY_TABLE", "analysis_runs"),
		BigQueryCredentialsFile: os.Getenv("BIGQUERY_CREDENTIALS_FILE"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
