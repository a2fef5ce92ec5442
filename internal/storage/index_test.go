package storage_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdsim/internal/storage"
)

var _ = DescribeTable("Index backends",
	func(kind string) {
		ctx := context.Background()
		idx, err := storage.NewIndex(kind, filepath.Join(GinkgoT().TempDir(), "sweep.db"))
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Init(ctx)).To(Succeed())
		DeferCleanup(func() { Expect(storage.CloseIfSupported(idx)).To(Succeed()) })

		_, ok, err := idx.Get(ctx, "missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		b := storage.Record{Key: "b", Ru: 0.2, Rv: 0.1, F: 0.03, K: 0.06, Path: "b.npy", Metrics: map[string]float64{"mean_v": 0.1}}
		a := storage.Record{Key: "a", Ru: 0.1, Rv: 0.05, F: 0.02, K: 0.05, Path: "a.npy"}
		Expect(idx.Put(ctx, b)).To(Succeed())
		Expect(idx.Put(ctx, a)).To(Succeed())

		got, ok, err := idx.Get(ctx, "b")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(got.F).To(Equal(0.03))
		Expect(got.Metrics).To(HaveKeyWithValue("mean_v", 0.1))

		b.Path = "moved.npy"
		Expect(idx.Put(ctx, b)).To(Succeed())

		all, err := idx.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
		Expect(all[0].Key).To(Equal("a"))
		Expect(all[1].Path).To(Equal("moved.npy"))
	},
	Entry("memory", "memory"),
	Entry("sqlite", "sqlite"),
)

var _ = Describe("NewIndex", func() {
	It("rejects unknown backends", func() {
		_, err := storage.NewIndex("postgres", "")
		Expect(err).To(MatchError(ContainSubstring("unsupported index backend")))
	})

	It("requires a path for sqlite", func() {
		idx, err := storage.NewIndex("sqlite", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Init(context.Background())).NotTo(Succeed())
	})
})
