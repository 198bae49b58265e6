package config

import (
	"os"
	"path/filepath"

	"github.com/rescale/dataset-fetch/internal/constants"
)

// KaggleCredentialPath returns where the kaggle tool looks for kaggle.json.
//
// Locations:
//   - $KAGGLE_CONFIG_DIR/kaggle.json when the variable is set
//   - ~/.kaggle/kaggle.json otherwise
func KaggleCredentialPath() string {
	if dir := os.Getenv(constants.KaggleConfigDirEnv); dir != "" {
		return filepath.Join(dir, constants.KaggleCredentialFile)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kaggle", constants.KaggleCredentialFile)
	}
	return filepath.Join(homeDir, ".kaggle", constants.KaggleCredentialFile)
}
