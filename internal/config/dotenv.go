package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory before configuration loads
const DotEnvFile = ".env"

// LoadDotEnv exports the variables in path that are not already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
