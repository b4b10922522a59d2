package dotenv

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentEnv(t *testing.T) {
	t.Setenv(EnvKey, "")
	assert.Equal(t, DevEnv, CurrentEnv())
	t.Setenv(EnvKey, ProdEnv)
	assert.Equal(t, ProdEnv, CurrentEnv())
}

func TestLoadDotEnvsPriority(t *testing.T) {
	t.Setenv(EnvKey, TestEnv)
	dir := t.TempDir()
	files := map[string]string{
		".env.test.local": "TUNEMUX_DOTENV_A=env_local\n",
		".env.local":      "TUNEMUX_DOTENV_A=local\nTUNEMUX_DOTENV_B=local\n",
		".env.test":       "TUNEMUX_DOTENV_B=env\nTUNEMUX_DOTENV_C=env\n",
		".env":            "TUNEMUX_DOTENV_C=base\nTUNEMUX_DOTENV_D=base\n",
	}
	for name, content := range files {
		require.Nil(t, ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	keys := []string{"TUNEMUX_DOTENV_A", "TUNEMUX_DOTENV_B", "TUNEMUX_DOTENV_C", "TUNEMUX_DOTENV_D"}
	t.Cleanup(func() {
		for _, key := range keys {
			os.Unsetenv(key)
		}
	})

	loadDotEnvs(dir + string(filepath.Separator))

	assert.Equal(t, "env_local", os.Getenv("TUNEMUX_DOTENV_A"))
	assert.Equal(t, "local", os.Getenv("TUNEMUX_DOTENV_B"))
	assert.Equal(t, "env", os.Getenv("TUNEMUX_DOTENV_C"))
	assert.Equal(t, "base", os.Getenv("TUNEMUX_DOTENV_D"))
}
