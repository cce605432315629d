package service_test

import (
	"context"
	"errors"
	"slices"

	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AnalysisService", func() {
	var (
		ctx        context.Context
		gateway    *mockGateway
		usageStore *mockUsageStore
		svc        service.AnalysisService
	)

	BeforeEach(func() {
		ctx = context.Background()
		gateway = &mockGateway{}
		usageStore = &mockUsageStore{}
		svc = service.NewAnalysisService(gateway, usageStore, service.CallLabels{Provider: "openai", Model: "gpt-4o-mini"})
	})

	Describe("Analyze", func() {
		DescribeTable("rejects blank input before any gateway call",
			func(input string) {
				result, err := svc.Analyze(ctx, input)

				Expect(result).To(BeNil())
				var ve *model.ValidationError
				Expect(errors.As(err, &ve)).To(BeTrue())
				Expect(ve.Message).To(Equal("observations are required"))
				Expect(gateway.gapAnalysisCalls).To(Equal(0))
				Expect(usageStore.created).To(BeEmpty())
			},
			Entry("empty", ""),
			Entry("spaces", "   "),
			Entry("mixed whitespace", "\n\t "),
		)

		It("returns a partition of all five domains", func() {
			gateway.gapAnalysisFn = func(_ context.Context, text string) (*model.GapAnalysis, error) {
				Expect(text).To(Equal("Child ran and jumped."))
				return &model.GapAnalysis{
					CoveredDomains: []model.DevelopmentalDomain{model.GrossMotor},
					MissingDomains: []model.DevelopmentalDomain{model.Cognitive, model.FineMotor, model.SpeechLanguage, model.SocialEmotional},
					SuggestedPrompts: []model.SuggestedPrompt{
						{Domain: model.FineMotor, Prompt: "Grasp?"},
						{Domain: model.SpeechLanguage, Prompt: "Words?"},
						{Domain: model.SocialEmotional, Prompt: "Eye contact?"},
						{Domain: model.Cognitive, Prompt: "Imitation?"},
					},
				}, nil
			}

			result, err := svc.Analyze(ctx, "Child ran and jumped.")
			Expect(err).NotTo(HaveOccurred())

			a := result.Analysis
			Expect(append(slices.Clone(a.CoveredDomains), a.MissingDomains...)).To(ConsistOf(model.AllDomains()))
			for _, d := range a.CoveredDomains {
				Expect(a.MissingDomains).NotTo(ContainElement(d))
			}
			Expect(a.MissingDomains[0]).To(Equal(model.FineMotor))
			Expect(result.ProcessingTime).To(BeNumerically(">=", 0))
		})

		It("rejects an analysis that breaks the partition", func() {
			gateway.gapAnalysisFn = func(context.Context, string) (*model.GapAnalysis, error) {
				return &model.GapAnalysis{
					CoveredDomains: []model.DevelopmentalDomain{model.GrossMotor, model.FineMotor},
					MissingDomains: []model.DevelopmentalDomain{model.FineMotor},
				}, nil
			}

			_, err := svc.Analyze(ctx, "Child ran.")
			var upstream *model.UpstreamError
			Expect(errors.As(err, &upstream)).To(BeTrue())
			Expect(upstream.Message).To(ContainSubstring("inconsistent analysis"))
		})

		It("propagates upstream errors unchanged", func() {
			cause := &model.UpstreamError{StatusCode: 429, Message: "rate limited"}
			gateway.gapAnalysisFn = func(context.Context, string) (*model.GapAnalysis, error) {
				return nil, cause
			}

			_, err := svc.Analyze(ctx, "Child ran.")
			Expect(err).To(BeIdenticalTo(cause))
			Expect(gateway.gapAnalysisCalls).To(Equal(1))
		})

		It("records the call in the usage ledger", func() {
			_, err := svc.Analyze(ctx, "Child ran, drew, talked, shared and solved puzzles.")
			Expect(err).NotTo(HaveOccurred())

			Expect(usageStore.created).To(HaveLen(1))
			usage := usageStore.created[0]
			Expect(usage.Operation).To(Equal(model.OperationAnalyze))
			Expect(usage.Status).To(Equal(model.UsageStatusOK))
			Expect(usage.Model).To(Equal("gpt-4o-mini"))
			Expect(usage.ID).NotTo(BeZero())
		})

		It("records upstream failures", func() {
			gateway.gapAnalysisFn = func(context.Context, string) (*model.GapAnalysis, error) {
				return nil, &model.UpstreamError{Message: "upstream request failed"}
			}

			_, _ = svc.Analyze(ctx, "Child ran.")
			Expect(usageStore.created).To(HaveLen(1))
			Expect(usageStore.created[0].Status).To(Equal(model.UsageStatusUpstream))
		})

		It("succeeds when the ledger write fails", func() {
			usageStore.createFn = func(context.Context, *model.LLMUsage) error {
				return errors.New("db down")
			}

			_, err := svc.Analyze(ctx, "Child ran, drew, talked, shared and solved puzzles.")
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
