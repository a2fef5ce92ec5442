package storage_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/storage"
)

func series() *dynamo.TimeSeries {
	ts := dynamo.NewTimeSeries(3, 2, 0.5, 2)
	a := dynamo.NewField(3, 2)
	b := dynamo.NewField(3, 2)
	for i := range a.U {
		a.U[i] = 1
		b.U[i] = 0.5
		b.V[i] = float32(i) / 10
	}
	ts.Append(0, a)
	ts.Append(4, b)
	return ts
}

var _ = Describe("Store", func() {
	var (
		dir string
		st  *storage.Store
		cfg *config.Config
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		st = storage.New(dir)
		Expect(st.Init()).To(Succeed())

		cfg = config.GetPreset("spots")
		cfg.Width, cfg.Height = 3, 2
		cfg.NSteps, cfg.SliceStep = 5, 4
		cfg.Dt = 0.5
		cfg.Seed = 42
	})

	It("lists nothing in an empty directory", func() {
		runs, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	It("lists nothing when the directory does not exist", func() {
		runs, err := storage.New(filepath.Join(dir, "missing")).List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	Context("after saving a run", func() {
		var runID string

		BeforeEach(func() {
			meta := storage.NewMetadata(cfg)
			meta.StepsTaken = 4
			meta.Metrics = map[string]float64{"mean_v": 0.25}

			var err error
			runID, err = st.Save(meta, series())
			Expect(err).NotTo(HaveOccurred())
		})

		It("names the run after the config with a short unique suffix", func() {
			Expect(runID).To(HavePrefix("spots_"))
			Expect(runID).To(HaveLen(len("spots_") + 8))
		})

		It("creates the run files", func() {
			for _, name := range []string{"metadata.json", "series.npy", "stats.csv"} {
				Expect(filepath.Join(dir, runID, name)).To(BeARegularFile())
			}
		})

		It("round-trips the metadata", func() {
			meta, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.ID).To(Equal(runID))
			Expect(meta.Seed).To(Equal(int64(42)))
			Expect(meta.F).To(Equal(cfg.F))
			Expect(meta.Frames).To(Equal(2))
			Expect(meta.Metrics).To(HaveKeyWithValue("mean_v", 0.25))
		})

		It("rebuilds the config from the metadata", func() {
			meta, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			want := *cfg
			want.Kernel = dynamo.DefaultKernel().Matrix()
			Expect(meta.Config()).To(Equal(&want))
		})

		It("records the default kernel when none is configured", func() {
			meta, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Kernel).To(BeEmpty())
			k, err := dynamo.NewKernel(meta.Kernel)
			Expect(err).NotTo(HaveOccurred())
			Expect(k.W).To(Equal(dynamo.DefaultKernel().W))
		})

		It("round-trips the series", func() {
			ts, err := st.LoadSeries(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ts.Shape()).To(Equal([]int{3, 2, 2, 2}))
			Expect(ts.Steps).To(Equal([]int{0, 4}))
			Expect(ts.Time(1)).To(BeNumerically("~", 2.0))
			Expect(ts.Frame(1).V).To(Equal(series().Frame(1).V))
		})

		It("stores per-frame statistics", func() {
			stats, err := st.LoadStats(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(HaveLen(2))
			Expect(stats[0].U.Mean).To(BeNumerically("~", 1.0, 1e-6))
			Expect(stats[1].Step).To(Equal(4))
			Expect(stats[1].V.Max).To(BeNumerically("~", 0.5, 1e-6))
		})

		It("lists the run", func() {
			runs, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal(runID))
		})

		It("skips directories without metadata", func() {
			Expect(os.Mkdir(filepath.Join(dir, "junk"), 0755)).To(Succeed())
			runs, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
		})
	})

	It("fails to load an unknown run", func() {
		_, err := st.Load("nope")
		Expect(err).To(HaveOccurred())
		_, err = st.LoadSeries("nope")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ExportJSON", func() {
	It("writes metadata, timing and the final frame", func() {
		var buf bytes.Buffer
		meta := storage.RunMetadata{ID: "r1", Name: "test", Dt: 0.5}
		Expect(storage.ExportJSON(&buf, meta, series())).To(Succeed())

		var out storage.ExportData
		Expect(json.NewDecoder(strings.NewReader(buf.String())).Decode(&out)).To(Succeed())
		Expect(out.Meta.ID).To(Equal("r1"))
		Expect(out.Shape).To(Equal([]int{3, 2, 2, 2}))
		Expect(out.Times).To(Equal([]float64{0, 2}))
		Expect(out.FinalU).To(HaveLen(3))
		Expect(out.FinalV[2]).To(Equal([]float32{0.4, 0.5}))
	})
})
