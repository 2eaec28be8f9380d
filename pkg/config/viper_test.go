package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/careerai/relay/pkg/config"
)

// setEnv sets an environment variable for the duration of the test.
func setEnv(key, value string) {
	orig, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, orig)
		} else {
			os.Unsetenv(key)
		}
	})
}

// unsetEnv clears an environment variable for the duration of the test.
func unsetEnv(key string) {
	orig, had := os.LookupEnv(key)
	Expect(os.Unsetenv(key)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, orig)
		}
	})
}

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })

		for _, key := range []string{
			"OPENROUTER_API_KEY", "OPENROUTER_API_URL", "OPENROUTER_MODEL",
			"CAREERAI_OPENROUTER_API_KEY", "CAREERAI_OPENROUTER_URL", "CAREERAI_OPENROUTER_MODEL",
			"CAREERAI_SERVER_LISTEN",
		} {
			unsetEnv(key)
		}
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	It("returns defaults with no file and no environment", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OpenRouter.APIKey).To(BeEmpty())
		Expect(cfg.OpenRouter.URL).To(Equal("https://openrouter.ai/api/v1/chat/completions"))
		Expect(cfg.OpenRouter.Model).To(Equal("openrouter/auto"))
		Expect(cfg.Server.Listen).To(Equal(":8000"))
	})

	It("reads the legacy OPENROUTER_* variables", func() {
		setEnv("OPENROUTER_API_KEY", "sk-or-legacy")
		setEnv("OPENROUTER_API_URL", "http://localhost:4000/chat")
		setEnv("OPENROUTER_MODEL", "openai/gpt-4o")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OpenRouter.APIKey).To(Equal("sk-or-legacy"))
		Expect(cfg.OpenRouter.URL).To(Equal("http://localhost:4000/chat"))
		Expect(cfg.OpenRouter.Model).To(Equal("openai/gpt-4o"))
	})

	It("never takes the API key from config.toml", func() {
		writeConfig("[openrouter]\napi_key = \"sk-or-from-file\"\nmodel = \"file/model\"\n")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OpenRouter.APIKey).To(BeEmpty())
		Expect(cfg.OpenRouter.Model).To(Equal("file/model"))
	})

	It("uses the environment key even when config.toml carries one", func() {
		writeConfig("[openrouter]\napi_key = \"sk-or-from-file\"\n")
		setEnv("OPENROUTER_API_KEY", "  sk-or-from-env  ")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OpenRouter.APIKey).To(Equal("sk-or-from-env"))
	})

	It("prefers the prefixed API key variable", func() {
		setEnv("OPENROUTER_API_KEY", "sk-or-legacy")
		setEnv("CAREERAI_OPENROUTER_API_KEY", "sk-or-prefixed")

		Expect(config.APIKeyFromEnv()).To(Equal("sk-or-prefixed"))
	})

	It("prefers the prefixed variable over the legacy one", func() {
		setEnv("OPENROUTER_MODEL", "legacy/model")
		setEnv("CAREERAI_OPENROUTER_MODEL", "prefixed/model")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("openrouter.model")).To(Equal("prefixed/model"))
	})

	It("lets the environment override config.toml", func() {
		writeConfig("[server]\nlisten = \":7000\"\n\n[openrouter]\nmodel = \"file/model\"\n")
		setEnv("CAREERAI_SERVER_LISTEN", ":7100")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Listen).To(Equal(":7100"))
		Expect(cfg.OpenRouter.Model).To(Equal("file/model"))
	})

	It("lets a changed flag override the environment", func() {
		setEnv("OPENROUTER_MODEL", "env/model")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var model string
		config.AddStringFlag(cmd, config.Flags, config.FlagModel, &model)
		Expect(cmd.Flags().Set("model", "flag/model")).To(Succeed())
		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagModel})

		Expect(v.GetString("openrouter.model")).To(Equal("flag/model"))
	})

	It("rejects an unsupported config version", func() {
		writeConfig("version = 3\n")

		_, err := config.InitViper(tmpDir)
		Expect(err).To(MatchError(ContainSubstring("unsupported config version")))
	})

	It("rejects an invalid timeout", func() {
		writeConfig("[openrouter]\ntimeout = \"whenever\"\n")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		_, err = config.FromViper(v)
		Expect(err).To(MatchError(ContainSubstring("openrouter.timeout")))
	})
})

var _ = Describe("LoadSecrets", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "secrets-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })
	})

	It("reports a missing file without error", func() {
		loaded, err := config.LoadSecrets(filepath.Join(tmpDir, "missing.env"))
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeFalse())
	})

	It("loads variables into the environment", func() {
		unsetEnv("CAREERAI_TEST_SECRET")
		path := filepath.Join(tmpDir, ".env")
		Expect(os.WriteFile(path, []byte("CAREERAI_TEST_SECRET=from-file\n"), 0o600)).To(Succeed())

		loaded, err := config.LoadSecrets(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())
		Expect(os.Getenv("CAREERAI_TEST_SECRET")).To(Equal("from-file"))
		DeferCleanup(func() { os.Unsetenv("CAREERAI_TEST_SECRET") })
	})

	It("does not override variables already set", func() {
		setEnv("CAREERAI_TEST_SECRET", "from-process")
		path := filepath.Join(tmpDir, ".env")
		Expect(os.WriteFile(path, []byte("CAREERAI_TEST_SECRET=from-file\n"), 0o600)).To(Succeed())

		_, err := config.LoadSecrets(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Getenv("CAREERAI_TEST_SECRET")).To(Equal("from-process"))
	})
})
