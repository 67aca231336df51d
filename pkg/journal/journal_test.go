package journal_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/turnexec/pkg/augment"
	"github.com/papercomputeco/turnexec/pkg/executor"
	"github.com/papercomputeco/turnexec/pkg/journal"
)

func execution(runID string, conv int, command, output string, status executor.Status) *augment.Execution {
	return &augment.Execution{
		RunID:             runID,
		ConversationIndex: conv,
		TurnIndex:         0,
		Round:             1,
		Outcome: &executor.Outcome{
			Command:   command,
			Output:    output,
			Status:    status,
			StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Duration:  250 * time.Millisecond,
		},
	}
}

var _ = Describe("Journal", func() {
	var (
		ctx context.Context
		j   *journal.Journal
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		j, err = journal.Open(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(j.Close()).To(Succeed())
	})

	It("records executions and lists them per run in order", func() {
		Expect(j.Record(ctx, execution("run-a", 0, "echo hi", "hi", executor.StatusCompleted))).To(Succeed())
		Expect(j.Record(ctx, execution("run-b", 0, "ls", "x", executor.StatusCompleted))).To(Succeed())
		Expect(j.Record(ctx, execution("run-a", 1, "sleep 5", "[命令执行超时: 1秒]", executor.StatusTimeout))).To(Succeed())

		entries, err := j.List(ctx, "run-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))

		Expect(entries[0].Command).To(Equal("echo hi"))
		Expect(entries[0].Output).To(Equal("hi"))
		Expect(entries[0].Status).To(Equal("completed"))
		Expect(entries[0].Duration).To(Equal(250 * time.Millisecond))
		Expect(entries[0].StartedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))).To(BeTrue())

		Expect(entries[1].ConversationIndex).To(Equal(1))
		Expect(entries[1].Status).To(Equal("timeout"))
	})

	It("reports the most recent run", func() {
		runID, err := j.LatestRunID(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(runID).To(BeEmpty())

		Expect(j.Record(ctx, execution("run-a", 0, "echo hi", "hi", executor.StatusCompleted))).To(Succeed())
		Expect(j.Record(ctx, execution("run-b", 0, "ls", "x", executor.StatusCompleted))).To(Succeed())

		runID, err = j.LatestRunID(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(runID).To(Equal("run-b"))
	})

	It("returns no entries for an unknown run", func() {
		entries, err := j.List(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("persists to a file across reopen", func() {
		path := filepath.Join(GinkgoT().TempDir(), "journal.db")

		first, err := journal.Open(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Record(ctx, execution("run-f", 0, "pwd", "/", executor.StatusCompleted))).To(Succeed())
		Expect(first.Close()).To(Succeed())

		second, err := journal.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()

		entries, err := second.List(ctx, "run-f")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})
