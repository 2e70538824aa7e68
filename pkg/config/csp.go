package config

// CSPConfig controls the Content-Security-Policy headers.
type CSPConfig struct {
	Enabled bool
	// ReportOnly sends Content-Security-Policy-Report-Only, which reports
	// violations without blocking.
	ReportOnly bool
}

// LoadCSPConfig reads CSP settings from the environment.
//
// Environment variables:
//   - CSP_ENABLED (default: true)
//   - CSP_REPORT_ONLY (default: false)
func LoadCSPConfig() CSPConfig {
	return CSPConfig{
		Enabled:    GetEnvBool("CSP_ENABLED", true),
		ReportOnly: GetEnvBool("CSP_REPORT_ONLY", false),
	}
}
