package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/turnexec/pkg/dotdir"
)

var _ = Describe("dotdir", func() {
	var tmpDir string
	var m *dotdir.Manager

	// chdir moves into dir until cleanup and points HOME at home.
	chdir := func(dir, home string) {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { os.Chdir(origDir) })

		GinkgoT().Setenv("HOME", home)
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Target", func() {
		It("creates the override directory if it doesn't exist", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))

			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("returns the override dir even when a local .turnexec dir exists", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, dotdir.DirName), 0o755)).To(Succeed())
			chdir(tmpDir, tmpDir)

			overrideDir := filepath.Join(tmpDir, "override")
			result, err := m.Target(overrideDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(overrideDir))
		})

		It("returns the local .turnexec dir when it exists and no override is provided", func() {
			local := filepath.Join(tmpDir, dotdir.DirName)
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir, filepath.Join(tmpDir, "home"))

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})

		It("falls back to the home .turnexec dir", func() {
			home := filepath.Join(tmpDir, "home")
			Expect(os.MkdirAll(filepath.Join(home, dotdir.DirName), 0o755)).To(Succeed())
			work := filepath.Join(tmpDir, "work")
			Expect(os.Mkdir(work, 0o755)).To(Succeed())
			chdir(work, home)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(home, dotdir.DirName)))
		})

		It("returns empty string and creates nothing when no directory exists", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir, emptyDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())

			_, err = os.Stat(filepath.Join(emptyDir, dotdir.DirName))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("Ensure", func() {
		It("creates ~/.turnexec when nothing exists", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir, emptyDir)

			result, err := m.Ensure("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(emptyDir, dotdir.DirName)))

			info, err := os.Stat(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("prefers an existing local dir", func() {
			local := filepath.Join(tmpDir, dotdir.DirName)
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir, filepath.Join(tmpDir, "home"))

			result, err := m.Ensure("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})
	})
})
