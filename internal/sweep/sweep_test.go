package sweep_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/sim"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/sweep"
)

var _ = Describe("Linspace", func() {
	DescribeTable("spacing",
		func(lo, hi float64, n int, want []float64) {
			Expect(sweep.Linspace(lo, hi, n)).To(Equal(want))
		},
		Entry("single value", 0.5, 0.9, 1, []float64{0.5}),
		Entry("endpoints", 0.0, 1.0, 2, []float64{0, 1}),
		Entry("quarters", 0.0, 1.0, 5, []float64{0, 0.25, 0.5, 0.75, 1}),
		Entry("empty", 0.0, 1.0, 0, []float64(nil)),
	)
})

var _ = Describe("Spec", func() {
	It("defaults to the 12^4 database grid", func() {
		spec := sweep.DefaultSpec()
		Expect(spec.Validate()).To(Succeed())
		Expect(spec.Points()).To(HaveLen(12 * 12 * 12 * 12))
		Expect(spec.Base.Boundary).To(Equal("periodic"))
		Expect(spec.Base.Width).To(Equal(100))
	})

	It("orders points with k varying fastest", func() {
		spec := sweep.DefaultSpec()
		spec.Ru = sweep.Range{Min: 1, Max: 2, N: 2}
		spec.Rv = sweep.Range{Min: 0.5, Max: 0.5, N: 1}
		spec.F = sweep.Range{Min: 0.03, Max: 0.03, N: 1}
		spec.K = sweep.Range{Min: 0.06, Max: 0.07, N: 2}

		pts := spec.Points()
		Expect(pts).To(Equal([]sweep.Point{
			{Ru: 1, Rv: 0.5, F: 0.03, K: 0.06},
			{Ru: 1, Rv: 0.5, F: 0.03, K: 0.07},
			{Ru: 2, Rv: 0.5, F: 0.03, K: 0.06},
			{Ru: 2, Rv: 0.5, F: 0.03, K: 0.07},
		}))
	})

	It("names files after the rates", func() {
		Expect(sweep.FileName(sweep.Point{Ru: 0.7, Rv: 0.1, F: 0.034, K: 0.061})).To(Equal("0.7_0.1_0.034_0.061.npy"))
	})

	It("loads YAML on top of the defaults", func() {
		path := filepath.Join(GinkgoT().TempDir(), "sweep.yaml")
		Expect(os.WriteFile(path, []byte("f: {min: 0.02, max: 0.04, n: 3}\nworkers: 2\n"), 0644)).To(Succeed())

		spec, err := sweep.LoadSpec(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(spec.F.Values()).To(HaveLen(3))
		Expect(spec.Workers).To(Equal(2))
		Expect(spec.K.N).To(Equal(12))
	})

	It("rejects empty ranges", func() {
		spec := sweep.DefaultSpec()
		spec.K.N = 0
		Expect(errors.Is(spec.Validate(), dynamo.ErrInvalidParameter)).To(BeTrue())
	})
})

var _ = Describe("Run", func() {
	var spec *sweep.Spec

	BeforeEach(func() {
		spec = sweep.DefaultSpec()
		spec.Base.Width, spec.Base.Height = 10, 10
		spec.Base.NSteps = 5
		spec.Ru = sweep.Range{Min: 0.8, Max: 0.9, N: 2}
		spec.Rv = sweep.Range{Min: 0.2, Max: 0.2, N: 1}
		spec.F = sweep.Range{Min: 0.04, Max: 0.04, N: 1}
		spec.K = sweep.Range{Min: 0.061, Max: 0.065, N: 2}
		spec.Workers = 2
		spec.OutDir = filepath.Join(GinkgoT().TempDir(), "db")
	})

	It("writes one final frame per point and indexes it", func() {
		ctx := context.Background()
		idx := storage.NewMemoryIndex()
		Expect(idx.Init(ctx)).To(Succeed())

		var mu sync.Mutex
		var seen []sweep.Result
		sum, err := sweep.Run(ctx, spec, idx, func(r sweep.Result) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, r)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(sweep.Summary{Total: 4, Done: 4}))
		Expect(seen).To(HaveLen(4))

		records, err := idx.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(4))

		for _, r := range seen {
			Expect(r.Err).NotTo(HaveOccurred())
			Expect(r.Metrics).To(HaveKey("mean_v"))
			f, err := sweep.LoadFrame(r.Path)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Shape()).To(Equal([3]int{10, 10, 2}))
		}
	})

	It("saves the last retained frame of the configured slicestep", func() {
		spec.Base.Width, spec.Base.Height = 20, 20
		spec.Base.NSteps = 12
		spec.Base.SliceStep = 5
		spec.Ru = sweep.Range{Min: 0.8, Max: 0.8, N: 1}
		spec.K = sweep.Range{Min: 0.062, Max: 0.062, N: 1}

		var saved string
		_, err := sweep.Run(context.Background(), spec, nil, func(r sweep.Result) {
			Expect(r.Err).NotTo(HaveOccurred())
			saved = r.Path
		})
		Expect(err).NotTo(HaveOccurred())
		got, err := sweep.LoadFrame(saved)
		Expect(err).NotTo(HaveOccurred())

		p, err := spec.Base.Params()
		Expect(err).NotTo(HaveOccurred())
		p.Ru, p.Rv, p.F, p.K = 0.8, 0.2, 0.04, 0.062
		p.SliceStep = 1
		f0, err := initcond.Generate(spec.Base.Dims(), spec.Base.Init, nil)
		Expect(err).NotTo(HaveOccurred())
		ts, err := sim.Evolve(context.Background(), f0, p)
		Expect(err).NotTo(HaveOccurred())

		Expect(got.V).To(Equal(ts.Frame(10).V))
		Expect(got.U).To(Equal(ts.Frame(10).U))
		Expect(got.V).NotTo(Equal(ts.Frame(11).V))
	})

	It("skips existing files when resuming", func() {
		_, err := sweep.Run(context.Background(), spec, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		spec.Resume = true
		sum, err := sweep.Run(context.Background(), spec, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Skipped).To(Equal(4))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sum, err := sweep.Run(ctx, spec, nil, nil)
		Expect(err).To(MatchError(context.Canceled))
		Expect(sum.Done).To(BeZero())
	})

	It("fails fast on a bad base config", func() {
		spec.Base.Init = "stripes"
		_, err := sweep.Run(context.Background(), spec, nil, nil)
		Expect(errors.Is(err, dynamo.ErrUnsupportedMode)).To(BeTrue())
	})
})
