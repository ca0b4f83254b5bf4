package descriptor_test

import (
	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gitter-badger/cloudflow/blueprint"
	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/descriptor"
	"github.com/gitter-badger/cloudflow/domain"
)

func fooSchema() domain.Schema {
	return domain.Schema{Name: "Foo", Fingerprint: []byte("foo-fingerprint")}
}

func chainDescriptors() []domain.StreamletDescriptor {
	return []domain.StreamletDescriptor{
		{
			ClassName:       "Ingress",
			Runtime:         "akka",
			Image:           "example/ingress:1.0",
			Shape:           domain.StreamletShape{Outlets: []domain.InOutlet{{Name: "out", Schema: fooSchema()}}},
			ServerAttribute: true,
		},
		{
			ClassName: "Processor",
			Runtime:   "akka",
			Image:     "example/processor:1.0",
			Shape: domain.StreamletShape{
				Inlets:  []domain.InOutlet{{Name: "in", Schema: fooSchema()}},
				Outlets: []domain.InOutlet{{Name: "out", Schema: fooSchema()}},
			},
		},
		{
			ClassName:       "Egress",
			Runtime:         "akka",
			Image:           "example/egress:1.0",
			Shape:           domain.StreamletShape{Inlets: []domain.InOutlet{{Name: "in", Schema: fooSchema()}}},
			ServerAttribute: true,
		},
	}
}

var _ = Describe("Build", func() {
	It("assigns container ports by overall blueprint index, not just server-streamlet count (S7)", func() {
		b := blueprint.New().
			Define(chainDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Use(blueprint.StreamletRef{Name: "egress", ClassName: "Egress"}).
			Connect("ingress.out", "processor.in", nil).
			Connect("processor.out", "egress.in", nil)

		vb, problems := b.Verified()
		Expect(problems).To(BeEmpty())
		Expect(vb).NotTo(BeNil())

		ad, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", vb, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ad.Deployments).To(HaveLen(3))

		Expect(ad.Deployments[0].StreamletName).To(Equal("ingress"))
		Expect(ad.Deployments[0].Endpoint).NotTo(BeNil())
		Expect(ad.Deployments[0].Endpoint.ContainerPort).To(Equal(domain.MinimumEndpointContainerPort))

		Expect(ad.Deployments[1].StreamletName).To(Equal("processor"))
		Expect(ad.Deployments[1].Endpoint).To(BeNil())

		Expect(ad.Deployments[2].StreamletName).To(Equal("egress"))
		Expect(ad.Deployments[2].Endpoint).NotTo(BeNil())
		Expect(ad.Deployments[2].Endpoint.ContainerPort).To(Equal(domain.MinimumEndpointContainerPort + 2))
	})

	It("normalizes the application id per spec (S6)", func() {
		raw := "-monstrous-some-very-long-NAME-with-ü-in-the-middle-that-still-needs-more-characters-mite-12345."
		want := "monstrous-some-very-long-name-with-u-in-the-middle-that-still"

		b := blueprint.New().
			Define([]domain.StreamletDescriptor{{ClassName: "Ingress", Runtime: "akka", Image: "i:1"}}).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"})
		vb, problems := b.Verified()
		Expect(problems).To(BeEmpty())

		ad, err := descriptor.Build(logr.Discard(), raw, "1.0.0", vb, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ad.AppID).To(Equal(want))
	})

	It("rejects an application id that normalizes to empty", func() {
		b := blueprint.New().
			Define([]domain.StreamletDescriptor{{ClassName: "Ingress", Runtime: "akka", Image: "i:1"}}).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"})
		vb, _ := b.Verified()

		_, err := descriptor.Build(logr.Discard(), "---", "1.0.0", vb, nil)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, descriptor.ErrInvalidApplicationID)).To(BeTrue())
	})

	It("rejects a nil verified blueprint", func() {
		_, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", nil, nil)
		Expect(errors.Is(err, descriptor.ErrInvalidBlueprint)).To(BeTrue())
	})

	It("is deterministic: two builds from identical inputs are structurally equal (invariant #7)", func() {
		b := blueprint.New().
			Define(chainDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Use(blueprint.StreamletRef{Name: "egress", ClassName: "Egress"}).
			Connect("ingress.out", "processor.in", nil).
			Connect("processor.out", "egress.in", nil)
		vb, _ := b.Verified()

		first, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", vb, map[string]string{"akka": "v1"})
		Expect(err).NotTo(HaveOccurred())
		second, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", vb, map[string]string{"akka": "v1"})
		Expect(err).NotTo(HaveOccurred())

		Expect(cmp.Diff(first, second)).To(BeEmpty())
	})

	It("gives every inlet exactly one portMapping entry (invariant #4) and every outlet a unique savepoint (invariant #5)", func() {
		b := blueprint.New().
			Define(chainDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Use(blueprint.StreamletRef{Name: "egress", ClassName: "Egress"}).
			Connect("ingress.out", "processor.in", nil).
			Connect("processor.out", "egress.in", nil)
		vb, _ := b.Verified()

		ad, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", vb, nil)
		Expect(err).NotTo(HaveOccurred())

		processor := ad.Deployments[1]
		Expect(processor.PortMappings).To(HaveKey("in"))
		Expect(processor.PortMappings).To(HaveKey("out"))

		savepointNames := map[string]bool{}
		for _, d := range ad.Deployments {
			for _, sp := range d.PortMappings {
				savepointNames[sp.String()] = true
			}
		}
		Expect(savepointNames).To(HaveLen(2))
	})

	It("assigns distinct container ports to every server streamlet (invariant #6)", func() {
		b := blueprint.New().
			Define(chainDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Use(blueprint.StreamletRef{Name: "egress", ClassName: "Egress"}).
			Connect("ingress.out", "processor.in", nil).
			Connect("processor.out", "egress.in", nil)
		vb, _ := b.Verified()

		ad, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", vb, nil)
		Expect(err).NotTo(HaveOccurred())

		ports := map[int]bool{}
		for _, d := range ad.Deployments {
			if d.Endpoint == nil {
				continue
			}
			Expect(ports).NotTo(HaveKey(d.Endpoint.ContainerPort))
			ports[d.Endpoint.ContainerPort] = true
		}
		Expect(ports).To(HaveLen(2))
	})

	It("honors a replicas override carried in ref metadata (supplemented feature)", func() {
		tree := configtree.New(map[string]any{"cloudflow.internal.replicas": 5})
		b := blueprint.New().
			Define([]domain.StreamletDescriptor{{ClassName: "Ingress", Runtime: "akka", Image: "i:1"}}).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress", Metadata: tree})
		vb, _ := b.Verified()

		ad, err := descriptor.Build(logr.Discard(), "my-app", "1.0.0", vb, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ad.Deployments[0].Replicas).To(HaveValue(Equal(5)))
	})
})
