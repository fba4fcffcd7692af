package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/assessment"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/console"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "One-shot symptom analysis",
	Long: `Run the full analysis pipeline over a symptom description.

The service disambiguates the symptoms, scores risk, and produces both
a patient report and a clinician record in a single round trip.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("symptoms", "", "Symptom description (required)")
	analyzeCmd.Flags().String("age", "", "Patient age")
	analyzeCmd.Flags().String("gender", "", "Patient gender")
	analyzeCmd.Flags().String("history", "", "Relevant medical history")
	analyzeCmd.Flags().Int("heart-rate", 0, "Heart rate in bpm")
	analyzeCmd.Flags().Int("bp-systolic", 0, "Systolic blood pressure in mmHg")
	analyzeCmd.Flags().Int("bp-diastolic", 0, "Diastolic blood pressure in mmHg")
	analyzeCmd.Flags().Float64("temperature", 0, "Body temperature in °C")
	analyzeCmd.Flags().Int("respiratory-rate", 0, "Respiratory rate in breaths/min")
	analyzeCmd.Flags().Int("spo2", 0, "Oxygen saturation in percent")
	analyzeCmd.Flags().Bool("json", false, "Print the raw analysis response as JSON")
	analyzeCmd.Flags().String("language", "", "Preferred language for personalized advice")
	analyzeCmd.Flags().String("region", "", "Region for culturally adapted recommendations")
	analyzeCmd.Flags().StringSlice("diet", nil, "Dietary preferences, e.g. --diet vegetarian")
	_ = analyzeCmd.MarkFlagRequired("symptoms")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_, log, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workflow := assessment.NewWorkflow(client, client, log)
	if prefs := preferencesFromFlags(cmd); prefs != nil {
		workflow.SetPreferences(prefs)
	}

	symptoms, _ := cmd.Flags().GetString("symptoms")
	age, _ := cmd.Flags().GetString("age")
	gender, _ := cmd.Flags().GetString("gender")
	history, _ := cmd.Flags().GetString("history")

	result, err := workflow.SubmitIntake(ctx, assessment.IntakeForm{
		Symptoms: symptoms,
		Age:      age,
		Gender:   gender,
		History:  history,
		Vitals:   vitalsFromFlags(cmd),
	})
	if err != nil {
		return fmt.Errorf("%s", triage.UserMessage(err))
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printAnalysis(result)
	return nil
}

// vitalsFromFlags builds the vital signs record from the analyze flags.
// Returns nil when no vitals flag was set, so the request omits the field.
func vitalsFromFlags(cmd *cobra.Command) *triage.VitalSigns {
	heartRate, _ := cmd.Flags().GetInt("heart-rate")
	systolic, _ := cmd.Flags().GetInt("bp-systolic")
	diastolic, _ := cmd.Flags().GetInt("bp-diastolic")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	respiratoryRate, _ := cmd.Flags().GetInt("respiratory-rate")
	spo2, _ := cmd.Flags().GetInt("spo2")

	if heartRate == 0 && systolic == 0 && diastolic == 0 && temperature == 0 && respiratoryRate == 0 && spo2 == 0 {
		return nil
	}

	return &triage.VitalSigns{
		HeartRate:              heartRate,
		BloodPressureSystolic:  systolic,
		BloodPressureDiastolic: diastolic,
		Temperature:            temperature,
		RespiratoryRate:        respiratoryRate,
		OxygenSaturation:       spo2,
	}
}

func printAnalysis(result *triage.AnalysisResponse) {
	badge := console.PresentRisk(result.RiskAssessment)
	fmt.Printf("%s %s\n", badge.Icon, badge.Title)
	fmt.Printf("   [%s] %d%%\n", badge.ScoreBar(30), badge.Percent)
	for _, flag := range result.RiskAssessment.RedFlags {
		fmt.Printf("   ⚑ %s\n", flag)
	}
	if result.RiskAssessment.EscalationRequired {
		fmt.Println("   🚨 Please seek medical attention promptly.")
	}

	if result.PatientReport != nil {
		for _, s := range console.PresentPatientReport(*result.PatientReport) {
			fmt.Printf("\n%s %s\n", s.Icon, s.Title)
			if s.Text != "" {
				fmt.Printf("   %s\n", s.Text)
			}
			for _, item := range s.Items {
				fmt.Printf("   • %s\n", item)
			}
		}
		fmt.Printf("\n%s\n", console.Disclaimer)
		fmt.Printf("\nReport ID: %s\n", result.PatientReport.ReportID)
	}

	if result.ClinicianReport != nil {
		dump, err := console.PresentClinicianReport(result.ClinicianReport)
		if err == nil {
			fmt.Println("\n🩺 Clinician record")
			fmt.Print(dump)
		}
	}
}
