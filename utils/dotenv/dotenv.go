package dotenv

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvKey  = "TUNEMUX_ENV"
	DevEnv  = "dev"
	TestEnv = "test"
	ProdEnv = "prod"
)

// CurrentEnv returns the runtime environment, "dev" when unset.
func CurrentEnv() string {
	env := os.Getenv(EnvKey)
	if env == "" {
		return DevEnv
	}
	return env
}

// Load loads the .env file following the convention: https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only need to be called once in main function, other code can use env through os.Getenv('ENV_NAME') during runtime
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

func loadDotEnvs(rootPath string) {
	env := CurrentEnv()

	// .env.[runtime_env].local has highest priority, usually contains username and password and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}
