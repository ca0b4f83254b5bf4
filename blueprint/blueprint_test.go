package blueprint_test

import (
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-logr/logr"

	"github.com/gitter-badger/cloudflow/blueprint"
	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/domain"
)

func fooSchema() domain.Schema {
	return domain.Schema{Name: "Foo", Fingerprint: []byte("foo-fingerprint")}
}

func baseDescriptors() []domain.StreamletDescriptor {
	return []domain.StreamletDescriptor{
		{
			ClassName: "Ingress",
			Runtime:   "akka",
			Image:     "example/ingress:1.0",
			Shape: domain.StreamletShape{
				Outlets: []domain.InOutlet{{Name: "out", Schema: fooSchema()}},
			},
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
	}
}

var _ = Describe("Blueprint edit API", func() {
	It("starts empty", func() {
		b := blueprint.New()
		Expect(b.Streamlets()).To(BeEmpty())
		Expect(b.Connections()).To(BeEmpty())
		Expect(b.StreamletDescriptors()).To(BeEmpty())
	})

	It("Use appends new refs and replaces existing ones in place", func() {
		b := blueprint.New().
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"})

		Expect(b.Streamlets()).To(HaveLen(2))
		Expect(b.Streamlets()[0].Name).To(Equal("ingress"))
		Expect(b.Streamlets()[1].Name).To(Equal("processor"))

		replaced := b.Use(blueprint.StreamletRef{Name: "ingress", ClassName: "IngressV2"})
		Expect(replaced.Streamlets()).To(HaveLen(2))
		Expect(replaced.Streamlets()[0].ClassName).To(Equal("IngressV2"))
		Expect(replaced.Streamlets()[0].Name).To(Equal("ingress"))
	})

	It("Use is idempotent (invariant #2): use(r).use(r) == use(r)", func() {
		ref := blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}
		once := blueprint.New().Use(ref)
		twice := once.Use(ref)

		Expect(reflect.DeepEqual(once.Streamlets(), twice.Streamlets())).To(BeTrue())
	})

	It("UpsertStreamletRef leaves an existing ref unchanged when className and metadata are both omitted", func() {
		b := blueprint.New().UpsertStreamletRef("ingress", "Ingress", nil)
		unchanged := b.UpsertStreamletRef("ingress", "", nil)
		Expect(reflect.DeepEqual(b.Streamlets(), unchanged.Streamlets())).To(BeTrue())
	})

	It("UpsertStreamletRef is a no-op for a missing ref with no className", func() {
		b := blueprint.New()
		still := b.UpsertStreamletRef("ghost", "", nil)
		Expect(still.Streamlets()).To(BeEmpty())
	})

	It("UpsertStreamletRef updates className on an existing ref", func() {
		b := blueprint.New().UpsertStreamletRef("ingress", "Ingress", nil)
		updated := b.UpsertStreamletRef("ingress", "IngressV2", nil)
		Expect(updated.Streamlets()[0].ClassName).To(Equal("IngressV2"))
	})

	It("UpsertStreamletRef updates metadata on an existing ref", func() {
		b := blueprint.New().UpsertStreamletRef("ingress", "Ingress", nil)
		tree := configtree.New(map[string]any{"replicas": 3})
		updated := b.UpsertStreamletRef("ingress", "", &tree)
		v, ok := updated.Streamlets()[0].Metadata.GetInt("replicas")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(3))
	})

	It("Remove deletes the ref and every connection touching it (invariant #3)", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil)

		removed := b.Remove("processor")
		Expect(removed.Streamlets()).To(HaveLen(1))
		Expect(removed.Streamlets()[0].Name).To(Equal("ingress"))
		Expect(removed.Connections()).To(BeEmpty())
	})

	It("Remove leaves connections untouched when they do not reference the removed ref", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Use(blueprint.StreamletRef{Name: "spare", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil)

		removed := b.Remove("spare")
		Expect(removed.Connections()).To(HaveLen(1))
	})

	It("Connect suppresses a duplicate of an already-resolved equivalent connection", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil).
			Connect("ingress", "processor", nil)

		Expect(b.Connections()).To(HaveLen(1))
	})

	It("Connect keeps distinct connections", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Use(blueprint.StreamletRef{Name: "processor2", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil).
			Connect("ingress.out", "processor2.in", nil)

		Expect(b.Connections()).To(HaveLen(2))
	})

	It("ConnectLabeled attaches a label", func() {
		label := "main-path"
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			ConnectLabeled("ingress.out", "processor.in", nil, &label)

		Expect(b.Connections()[0].Label).To(HaveValue(Equal("main-path")))
	})

	It("Disconnect removes every connection touching the given path", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil)

		disconnected := b.Disconnect("processor.in")
		Expect(disconnected.Connections()).To(BeEmpty())
	})

	It("Verify is idempotent (invariant #1)", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil)

		once := b.Verify(logr.Discard())
		twice := once.Verify(logr.Discard())
		Expect(twice.Problems()).To(Equal(once.Problems()))
		Expect(once.Problems()).To(BeEmpty())
	})

	It("Verified returns a VerifiedBlueprint when there are no problems", func() {
		b := blueprint.New().
			Define(baseDescriptors()).
			Use(blueprint.StreamletRef{Name: "ingress", ClassName: "Ingress"}).
			Use(blueprint.StreamletRef{Name: "processor", ClassName: "Processor"}).
			Connect("ingress.out", "processor.in", nil)

		vb, problems := b.Verified()
		Expect(problems).To(BeEmpty())
		Expect(vb).NotTo(BeNil())
		Expect(vb.Streamlets).To(HaveLen(2))
	})

	It("Verified returns problems instead of a blueprint when verification fails", func() {
		b := blueprint.New()
		vb, problems := b.Verified()
		Expect(vb).To(BeNil())
		Expect(problems).NotTo(BeEmpty())
	})
})
