package confkit

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/zeromicro/go-zero/core/logx"
)

const envDotenvPath = "SCHEMACHECK_DOTENV"

var dotenvOnce sync.Once

// LoadDotenvOnce loads .env (or the file named by SCHEMACHECK_DOTENV) into the
// process environment the first time it is called. Existing variables win.
func LoadDotenvOnce() {
	dotenvOnce.Do(func() {
		loadDotenv(dotenvPath())
	})
}

func dotenvPath() string {
	if path := os.Getenv(envDotenvPath); path != "" {
		return path
	}
	return ".env"
}

// loadDotenv reports whether path was applied. A missing file is not an
// error; a malformed one is logged and skipped.
func loadDotenv(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := godotenv.Load(path); err != nil {
		logx.Errorf("confkit: load %s: %v", path, err)
		return false
	}
	return true
}
