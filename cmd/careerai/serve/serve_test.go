package servecmder

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
)

var relayEnv = []string{
	"OPENROUTER_API_KEY", "OPENROUTER_API_URL", "OPENROUTER_MODEL",
	"CAREERAI_OPENROUTER_API_KEY", "CAREERAI_OPENROUTER_URL", "CAREERAI_OPENROUTER_MODEL",
	"CAREERAI_SERVER_LISTEN", "CAREERAI_OPENROUTER_TIMEOUT",
}

// withParent attaches cmd to a root carrying the global flags and parses args.
func withParent(cmd *cobra.Command, args ...string) {
	root := &cobra.Command{Use: "careerai"}
	root.PersistentFlags().BoolP("debug", "d", false, "")
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(cmd)
	Expect(cmd.ParseFlags(args)).To(Succeed())
}

var _ = Describe("serve", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "serve-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })

		for _, key := range relayEnv {
			orig, had := os.LookupEnv(key)
			os.Unsetenv(key)
			DeferCleanup(func() {
				if had {
					os.Setenv(key, orig)
				} else {
					os.Unsetenv(key)
				}
			})
		}
	})

	It("registers the relay flags", func() {
		cmd := NewServeCmd()
		for _, name := range []string{"listen", "cors-origins", "upstream", "model", "timeout", "env-file", "log-file", "log-format", "log-source"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(":8000"))
		Expect(cmd.Flags().Lookup("env-file").DefValue).To(Equal("secrets/.env"))
		Expect(cmd.Flags().Lookup("log-format").DefValue).To(Equal("pretty"))
	})

	It("resolves defaults", func() {
		cmder := &ServeCommander{}
		cmd := newServeCmd(cmder)
		withParent(cmd, "--config-dir", tmpDir, "--env-file", filepath.Join(tmpDir, "none.env"))
		Expect(cmd.PreRunE(cmd, nil)).To(Succeed())

		rc, err := cmder.relayConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(rc.ListenAddr).To(Equal(":8000"))
		Expect(rc.CORSOrigins).To(Equal("*"))
		Expect(rc.Upstream.URL).To(Equal("https://openrouter.ai/api/v1/chat/completions"))
		Expect(rc.Upstream.Model).To(Equal("openrouter/auto"))
		Expect(rc.Upstream.Referer).To(Equal("http://localhost"))
		Expect(rc.Upstream.Title).To(Equal("CareerAI"))
		Expect(rc.Upstream.Timeout).To(Equal(60 * time.Second))
		Expect(rc.Upstream.APIKey).To(BeEmpty())
	})

	It("reads the API key from the env file", func() {
		envFile := filepath.Join(tmpDir, ".env")
		Expect(os.WriteFile(envFile, []byte("OPENROUTER_API_KEY=sk-or-from-file\n"), 0o600)).To(Succeed())

		cmder := &ServeCommander{}
		cmd := newServeCmd(cmder)
		withParent(cmd, "--config-dir", tmpDir, "--env-file", envFile)
		Expect(cmd.PreRunE(cmd, nil)).To(Succeed())

		rc, err := cmder.relayConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(rc.Upstream.APIKey).To(Equal("sk-or-from-file"))
	})

	It("applies flags over environment and config file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"),
			[]byte("[openrouter]\nmodel = \"file/model\"\ntimeout = \"5s\"\n"), 0o600)).To(Succeed())
		os.Setenv("OPENROUTER_MODEL", "env/model")

		cmder := &ServeCommander{}
		cmd := newServeCmd(cmder)
		withParent(cmd,
			"--config-dir", tmpDir,
			"--env-file", filepath.Join(tmpDir, "none.env"),
			"--model", "flag/model",
			"--listen", ":9100",
		)
		Expect(cmd.PreRunE(cmd, nil)).To(Succeed())

		rc, err := cmder.relayConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(rc.Upstream.Model).To(Equal("flag/model"))
		Expect(rc.ListenAddr).To(Equal(":9100"))
		Expect(rc.Upstream.Timeout).To(Equal(5 * time.Second))
	})

	It("fails on an invalid timeout", func() {
		cmder := &ServeCommander{}
		cmd := newServeCmd(cmder)
		withParent(cmd, "--config-dir", tmpDir, "--env-file", filepath.Join(tmpDir, "none.env"), "--timeout=0s")
		Expect(cmd.PreRunE(cmd, nil)).To(MatchError(ContainSubstring("openrouter.timeout")))
	})

	It("writes JSON logs to --log-file", func() {
		logPath := filepath.Join(tmpDir, "relay.log")
		cmder := &ServeCommander{logFile: logPath, stdout: io.Discard}

		l, closeLog, err := cmder.newLogger()
		Expect(err).NotTo(HaveOccurred())
		l.Warn("OPENROUTER_API_KEY is not set")
		closeLog()

		raw, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())

		var entry map[string]any
		Expect(json.Unmarshal(raw, &entry)).To(Succeed())
		Expect(entry["level"]).To(Equal("WARN"))
		Expect(entry["msg"]).To(Equal("OPENROUTER_API_KEY is not set"))
	})

	It("adds the caller to file logs with --log-source", func() {
		logPath := filepath.Join(tmpDir, "relay.log")
		cmder := &ServeCommander{}
		cmd := newServeCmd(cmder)
		Expect(cmd.ParseFlags([]string{"--log-file", logPath, "--log-source"})).To(Succeed())
		cmder.stdout = io.Discard

		l, closeLog, err := cmder.newLogger()
		Expect(err).NotTo(HaveOccurred())
		l.Info("listening")
		closeLog()

		raw, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())

		var entry map[string]any
		Expect(json.Unmarshal(raw, &entry)).To(Succeed())
		Expect(entry).To(HaveKey("source"))
	})

	It("writes the console in the --log-format chosen", func() {
		var console bytes.Buffer
		cmder := &ServeCommander{}
		cmd := newServeCmd(cmder)
		Expect(cmd.ParseFlags([]string{"--log-format", "json"})).To(Succeed())
		cmder.stdout = &console

		l, closeLog, err := cmder.newLogger()
		Expect(err).NotTo(HaveOccurred())
		defer closeLog()
		l.Info("ready", "listen", ":8000")

		var entry map[string]any
		Expect(json.Unmarshal(console.Bytes(), &entry)).To(Succeed())
		Expect(entry["listen"]).To(Equal(":8000"))
		Expect(entry).NotTo(HaveKey("source"))
	})

	It("rejects an unknown --log-format", func() {
		cmder := &ServeCommander{logFormat: "xml"}
		_, _, err := cmder.newLogger()
		Expect(err).To(MatchError(ContainSubstring("unknown log format")))
	})
})
