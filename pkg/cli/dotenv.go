package cli

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads key/value pairs from path into the process
// environment. Missing files are not an error: a host may have no
// .env at all.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
