package store_test

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingDB struct {
	sql     []string
	args    [][]any
	execErr error
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql = append(d.sql, sql)
	d.args = append(d.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), d.execErr
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *recordingDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

var _ = Describe("LLMUsageStore", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("discards writes without a database", func() {
		s := store.NewStores(nil).LLMUsage()
		Expect(s.Create(ctx, &model.LLMUsage{ID: 1})).To(Succeed())

		rows, err := s.ListRecent(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("inserts call metadata and stamps the creation time", func() {
		db := &recordingDB{}
		s := store.NewStores(db).LLMUsage()

		usage := &model.LLMUsage{
			ID:         42,
			Operation:  model.OperationAnalyze,
			Provider:   "openai",
			Model:      "gpt-4o-mini",
			Status:     model.UsageStatusOK,
			DurationMs: 1200,
		}
		Expect(s.Create(ctx, usage)).To(Succeed())

		Expect(db.sql).To(HaveLen(1))
		Expect(db.sql[0]).To(ContainSubstring("INSERT INTO llm_usage"))
		Expect(db.args[0][0]).To(Equal(int64(42)))
		Expect(db.args[0][1]).To(Equal(model.OperationAnalyze))
		Expect(usage.CreatedAt.IsZero()).To(BeFalse())
	})

	It("wraps insert failures", func() {
		db := &recordingDB{execErr: errors.New("connection reset")}
		err := store.NewStores(db).LLMUsage().Create(ctx, &model.LLMUsage{ID: 1})
		Expect(err).To(MatchError(ContainSubstring("inserting llm usage")))
	})

	It("creates the table idempotently", func() {
		db := &recordingDB{}
		Expect(store.EnsureSchema(ctx, db)).To(Succeed())
		Expect(db.sql[0]).To(ContainSubstring("CREATE TABLE IF NOT EXISTS llm_usage"))
	})
})
