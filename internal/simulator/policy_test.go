package simulator_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/talentflow/talentflow/internal/simulator"
)

var _ = Describe("fault policies", func() {
	It("fixed policy fails by kind", func() {
		p := simulator.FixedPolicy{Latency: time.Millisecond, FailWrites: true}
		Expect(p.Decide(true)).To(Equal(simulator.Decision{Latency: time.Millisecond, Fail: true}))
		Expect(p.Decide(false).Fail).To(BeFalse())

		Expect(simulator.FixedPolicy{Fail: true}.Decide(false).Fail).To(BeTrue())
	})

	It("random policy keeps latency within bounds", func() {
		p := simulator.NewRandomPolicy(simulator.RandomPolicyConfig{
			LatencyMin: 200 * time.Millisecond,
			LatencyMax: 1200 * time.Millisecond,
			Seed:       42,
		})
		for i := 0; i < 500; i++ {
			d := p.Decide(i%2 == 0)
			Expect(d.Latency).To(BeNumerically(">=", 200*time.Millisecond))
			Expect(d.Latency).To(BeNumerically("<", 1200*time.Millisecond))
			Expect(d.Fail).To(BeFalse())
		}
	})

	It("random policy honours certain failure rates", func() {
		p := simulator.NewRandomPolicy(simulator.RandomPolicyConfig{ReadFailureRate: 0, WriteFailureRate: 1, Seed: 7})
		for i := 0; i < 100; i++ {
			Expect(p.Decide(true).Fail).To(BeTrue())
			Expect(p.Decide(false).Fail).To(BeFalse())
			Expect(p.Decide(false).Latency).To(BeZero())
		}
	})

	It("random policy fails writes more often than reads", func() {
		p := simulator.NewRandomPolicy(simulator.RandomPolicyConfig{ReadFailureRate: 0.05, WriteFailureRate: 0.5, Seed: 1})
		reads, writes := 0, 0
		for i := 0; i < 2000; i++ {
			if p.Decide(false).Fail {
				reads++
			}
			if p.Decide(true).Fail {
				writes++
			}
		}
		Expect(writes).To(BeNumerically(">", reads))
	})
})
