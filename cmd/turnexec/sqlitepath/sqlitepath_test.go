package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveJournalPath", func() {
	var homeDir, workDir string

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()

		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")

		origCwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(workDir)).To(Succeed())
		DeferCleanup(func() { os.Chdir(origCwd) })
	})

	It("prefers the override", func() {
		path, err := ResolveJournalPath("/tmp/custom.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("finds a local .turnexec/journal.db", func() {
		Expect(os.MkdirAll(filepath.Join(workDir, ".turnexec"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(workDir, ".turnexec", JournalFile), []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveJournalPath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(".turnexec", JournalFile)))
	})

	It("resolves ~/.turnexec/journal.db when present", func() {
		dbPath := filepath.Join(homeDir, ".turnexec", JournalFile)
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveJournalPath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("errors when nothing is found", func() {
		_, err := ResolveJournalPath("  ")
		Expect(err).To(MatchError(ContainSubstring("pass --journal")))
	})
})
