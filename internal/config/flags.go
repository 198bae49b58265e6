package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rescale/dataset-fetch/internal/constants"
)

// BindFlags registers every configuration flag on fs and binds it into v,
// so a flag overrides the matching DATASET_FETCH_* variable and config entry.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.StringP(KeyConfigFile, "c", "", "Configuration file path (yaml, toml or json)")
	fs.String(KeyEnvFile, "", "Load credentials from this .env file before reading the environment (default: ./.env if present)")
	fs.StringP(KeyOutputRoot, "o", "", "Directory that relative dataset destinations are placed under")
	fs.String(KeyKaggleBin, constants.KaggleBinary, "Name or path of the kaggle executable")
	fs.Int(KeyMaxParallel, 0, "Maximum concurrent downloads (0 = one per dataset)")
	fs.Bool(KeyPlain, false, "Single-line carriage-return progress even on a terminal")
	fs.Bool(KeyIgnoreFailures, false, "Exit 0 even if some datasets failed to download")
	fs.BoolP(KeyVerbose, "v", false, "Verbose output (shows debug messages)")
	fs.Bool(KeyDebug, false, "Enable debug output (same as --verbose)")

	fs.String(KeyProxyMode, "system", "Proxy mode: no-proxy, system, basic, ntlm")
	fs.String(KeyProxyHost, "", "Proxy host (basic/ntlm modes)")
	fs.Int(KeyProxyPort, 0, "Proxy port (default 8080)")
	fs.String(KeyProxyUser, "", "Proxy user (basic/ntlm modes)")
	fs.String(KeyProxyPassword, "", "Proxy password (basic/ntlm modes)")
	fs.String(KeyNoProxy, "", "Comma-separated hosts or CIDRs that bypass the proxy")

	fs.String(KeyAWSRegion, "", "AWS region for s3:// sources (default: from AWS config)")
	fs.String(KeyAWSProfile, "", "AWS shared config profile for s3:// sources")
	fs.String(KeyAWSEndpoint, "", "Custom S3 endpoint URL (path-style addressing)")
	fs.Bool(KeyAWSAnonymous, false, "Send unsigned S3 requests (public buckets)")
	fs.String(KeyAWSAccessKeyID, "", "Static AWS access key id (prefer the AWS credential chain)")
	fs.String(KeyAWSSecretAccessKey, "", "Static AWS secret access key")

	fs.String(KeyAzureSASToken, "", "SAS token appended to az:// requests")
	fs.String(KeyAzureEndpoint, "", "Azure Blob service URL override (default https://<account>.blob.core.windows.net)")

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(f.Name, f)
	})
	return bindErr
}
