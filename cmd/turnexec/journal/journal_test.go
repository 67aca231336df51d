package journalcmder_test

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	journalcmder "github.com/papercomputeco/turnexec/cmd/turnexec/journal"
	"github.com/papercomputeco/turnexec/pkg/augment"
	"github.com/papercomputeco/turnexec/pkg/executor"
	"github.com/papercomputeco/turnexec/pkg/journal"
)

var _ = Describe("journal command", func() {
	var (
		dbPath string
		out    *bytes.Buffer
	)

	record := func(runID, command, output string, status executor.Status) {
		j, err := journal.Open(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer j.Close()

		Expect(j.Record(context.Background(), &augment.Execution{
			RunID: runID,
			Round: 1,
			Outcome: &executor.Outcome{
				Command:   command,
				Output:    output,
				Status:    status,
				StartedAt: time.Now(),
				Duration:  20 * time.Millisecond,
			},
		})).To(Succeed())
	}

	execute := func(args ...string) error {
		cmd := journalcmder.NewJournalCmd()
		cmd.SetArgs(append([]string{"--journal", dbPath}, args...))
		cmd.SetOut(out)
		cmd.SetErr(out)
		return cmd.Execute()
	}

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "journal.db")
		out = &bytes.Buffer{}
	})

	It("reports an empty journal", func() {
		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Journal is empty"))
	})

	It("shows the most recent run by default", func() {
		record("run-old", "echo old", "old", executor.StatusCompleted)
		record("run-new", "echo new", "new", executor.StatusCompleted)

		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("run-new"))
		Expect(out.String()).To(ContainSubstring("echo new"))
		Expect(out.String()).NotTo(ContainSubstring("echo old"))
	})

	It("shows a named run", func() {
		record("run-old", "echo old", "old", executor.StatusCompleted)
		record("run-new", "sleep 5", "[命令执行超时: 1秒]", executor.StatusTimeout)

		Expect(execute("--run", "run-old")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("echo old"))
		Expect(out.String()).To(ContainSubstring("(1 commands)"))
	})

	It("shows non-completed statuses", func() {
		record("run-t", "sleep 5", "[命令执行超时: 1秒]", executor.StatusTimeout)

		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("timeout"))
	})

	It("rejects positional arguments", func() {
		Expect(execute("extra")).To(HaveOccurred())
	})
})
