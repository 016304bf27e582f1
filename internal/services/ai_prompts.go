package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

const explainSystemPrompt = `You are an assistant that explains maternal–fetal risk assessments
to pregnant patients in clear, calm, non-alarming language.
You are NOT giving a diagnosis. You only explain what the
numbers mean and when they should talk to a doctor.`

const careCoachSystemPrompt = `You are a gentle pregnancy care coach.
You DO NOT diagnose or prescribe medicines.
You give short, friendly, practical lifestyle and monitoring tips
based on the current maternal–fetal risk level.

Rules:
- 3–6 short bullet points only.
- Use calm, non-alarming language.
- Focus on rest, hydration, monitoring symptoms, stress reduction,
  keeping appointments, and when to contact a doctor.
- Never mention specific medicine names, doses, or treatments.
- Always remind that this is not a diagnosis and does not replace a doctor.`

const dietPlanSystemPrompt = `You are a gentle maternal wellness assistant.
You create a **single-day diet plan** for a pregnant woman.

Rules:
- This is **not medical nutrition therapy**.
- Assume a generally healthy pregnancy unless vitals suggest otherwise.
- Always be conservative and safe: no raw meat/fish, unpasteurised cheese,
  alcohol, or obviously unsafe items in pregnancy.
- Use simple household foods and normal portions.
- Mention clearly that this is **general educational guidance** and
  that she must follow her obstetrician / dietician's advice first.
- Keep tone warm, encouraging, and non-judgmental.`

const healthSearchSystemPrompt = `You are an assistant that answers general questions about pregnancy,
maternal health, and fetal health. Your answers must:

- Be short, clear, and calm
- Be educational only, not a diagnosis
- Encourage the user to talk to their doctor for any worrying symptoms
- Avoid giving specific treatment plans, prescriptions, or emergencies advice
- Always say that this does NOT replace a real doctor

If the question sounds like an emergency (severe pain, heavy bleeding,
loss of consciousness, etc.), tell them to seek immediate medical care.`

const patternsSystemPrompt = `You are an assistant that analyzes time-series maternal–fetal vitals
and risk scores. Your goal is to explain patterns and trends in simple,
friendly language for clinicians and patients.

You DO NOT give diagnoses. You only describe trends, possible reasons,
and suggest when closer monitoring or a doctor's review might be helpful.`

// RiskSnapshot is the risk result a client asks to have explained.
type RiskSnapshot struct {
	RiskLevel         *string  `json:"risk_level"`
	RiskScore         *float64 `json:"risk_score"`
	Reason            *string  `json:"reason"`
	ModelVersion      *string  `json:"model_version"`
	MLRiskLevel       *string  `json:"ml_risk_level"`
	MLLogRegRiskLevel *string  `json:"ml_logreg_risk_level"`
}

func buildExplainPrompt(risk RiskSnapshot) string {
	var prompt strings.Builder
	prompt.WriteString("You are helping explain a maternal–fetal risk screen result.\n\n")
	fmt.Fprintf(&prompt, "Current risk level (heuristic): %s\n", quoteOrNil(risk.RiskLevel))
	fmt.Fprintf(&prompt, "Risk score (0–1): %s\n", floatOrNil(risk.RiskScore))
	fmt.Fprintf(&prompt, "Heuristic reason text: %s\n\n", quoteOrNil(risk.Reason))
	fmt.Fprintf(&prompt, "RF (PSO) model risk level: %s\n", quoteOrNil(risk.MLRiskLevel))
	fmt.Fprintf(&prompt, "Logistic Regression model risk level: %s\n", quoteOrNil(risk.MLLogRegRiskLevel))
	fmt.Fprintf(&prompt, "Model version used: %s\n\n", quoteOrNil(risk.ModelVersion))
	prompt.WriteString(`Please explain this result to a pregnant patient in:
- short, friendly paragraphs (3–6 sentences total)
- calm and non-alarming language
- clearly stating that this is only a screening tool, not a diagnosis
- include simple guidance on when to contact their doctor
- avoid medical jargon where possible
`)
	return prompt.String()
}

func explainFallback(risk RiskSnapshot) string {
	score := "N/A"
	if risk.RiskScore != nil {
		score = strconv.FormatFloat(roundTo(*risk.RiskScore, 2), 'f', -1, 64)
	}
	reason := "based on the current vital signs."
	if risk.Reason != nil && strings.TrimSpace(*risk.Reason) != "" {
		reason = *risk.Reason
	}
	modelVersion := "heuristic_only"
	if risk.ModelVersion != nil && strings.TrimSpace(*risk.ModelVersion) != "" {
		modelVersion = *risk.ModelVersion
	}

	modelText := fmt.Sprintf("The system used the **%s** model, which combines a rule-based clinical heuristic with data-driven machine-learning components.", modelVersion)
	if risk.MLRiskLevel != nil {
		modelText += fmt.Sprintf(" The Random Forest model (PSO-tuned) classified this case as **%s**.", *risk.MLRiskLevel)
	}
	if risk.MLLogRegRiskLevel != nil {
		modelText += fmt.Sprintf(" The Logistic Regression model classified this case as **%s**.", *risk.MLLogRegRiskLevel)
	}

	return strings.Join([]string{
		"The current evaluation suggests the vital signs are within an acceptable range.",
		"",
		fmt.Sprintf("The calculated risk score is **%s** on a scale from 0 (lowest) to 1 (highest).", score),
		"",
		fmt.Sprintf("The main factors contributing to this assessment are: %s.", reason),
		"",
		modelText,
		"",
		"This explanation is intended to support understanding, but it is **not** a diagnosis.",
		"Any concerning symptoms or persistent abnormalities should be discussed with a qualified",
		"healthcare professional or obstetrician as soon as possible.",
		"",
	}, "\n")
}

func buildCareCoachPrompt(level string, score *float64, reason string) string {
	return fmt.Sprintf(`Current screening result:

- Risk level: %q
- Risk score (0–1): %s
- Reason text: %q

Based on this, give lifestyle / self-care tips for the pregnant person.
`, level, floatOrNil(score), reason)
}

var careCoachTips = map[string][]string{
	models.RiskLevelCritical: {
		"Rest as much as possible and avoid heavy physical activity.",
		"Monitor your symptoms closely (especially pain, bleeding, severe headache, or vision changes).",
		"Keep your emergency contact and hospital number easily accessible.",
		"If you notice any sudden worsening of symptoms, seek medical help immediately.",
	},
	models.RiskLevelWarning: {
		"Take regular short breaks during the day and avoid overexertion.",
		"Drink enough water and eat small, frequent, balanced meals.",
		"Keep a simple log of any unusual symptoms you notice.",
		"Contact your doctor if anything feels worrying or does not improve.",
	},
	models.RiskLevelNormal: {
		"Maintain a regular sleep schedule and rest when you feel tired.",
		"Stay hydrated and follow your doctor's advice on nutrition.",
		"Keep track of your routine check-ups and attend all appointments.",
		"If you notice new or worrying symptoms, contact your doctor promptly.",
	},
}

func careCoachFallback(level string) string {
	tips, ok := careCoachTips[level]
	if !ok {
		tips = careCoachTips[models.RiskLevelNormal]
	}

	lines := []string{"Here are some general self-care tips based on your current screening result:", ""}
	lines = append(lines, tips...)
	lines = append(lines,
		"",
		"These tips are for general support only and are NOT a diagnosis.",
		"Always follow the advice of your obstetrician or healthcare provider.",
	)
	return strings.Join(lines, "\n")
}

func buildDietPlanPrompt(cuisine string, date string, patient *models.Patient, reading *models.Reading) string {
	var age, weeks *int
	if patient != nil {
		age, weeks = patient.Age, patient.GestationWeeks
	}
	var maternalHR, fetalHR, systolic, diastolic, spo2 *int
	var temperature *float64
	if reading != nil {
		maternalHR, fetalHR = reading.MaternalHR, reading.FetalHR
		systolic, diastolic = reading.SystolicBP, reading.DiastolicBP
		spo2, temperature = reading.SpO2, reading.Temperature
	}

	return fmt.Sprintf(`Please create a **one-day diet plan** for a pregnant woman.

Day: %s
Preferred cuisine: %s

Patient info (if available):
- Age: %s
- Gestational weeks: %s

Most recent vital signs (if available):
- Maternal heart rate: %s
- Fetal heart rate: %s
- Blood pressure: %s / %s
- SpO2: %s
- Temperature: %s

Tasks:
1. Suggest **meals and snacks** through the day, for example:
   - Early morning
   - Breakfast
   - Mid-morning snack
   - Lunch
   - Evening snack
   - Dinner
2. Align flavours/choices with the chosen cuisine (%s),
   but keep options light, balanced and pregnancy-friendly.
3. For each item, explain in 1 short line **why** it is helpful
   (e.g., iron, protein, hydration, fibre).
4. Avoid strong, absolute medical claims. No promises or cures.
5. Add a short closing note reminding her that this is **not a
   personalised medical plan** and she should follow advice from
   her obstetrician or dietician first.

Format your answer as:
- A short friendly intro paragraph
- Then a **markdown table** with columns:
  | Time | Meal / Item | Example foods | Why this helps |
- Then a short closing paragraph with a gentle disclaimer.
`, date, cuisine, intOrNil(age), intOrNil(weeks),
		intOrNil(maternalHR), intOrNil(fetalHR), intOrNil(systolic), intOrNil(diastolic),
		intOrNil(spo2), floatOrNil(temperature), cuisine)
}

func dietPlanFallback(cuisine string, date string) string {
	return fmt.Sprintf(`This is a general example of a gentle, pregnancy-friendly diet plan
for %s, inspired by %s flavours.

• Breakfast: A small portion of whole grains (like oats or chapati),
  a serving of cooked vegetables, and a source of protein such as
  lentils, paneer, or eggs (if usually eaten).
• Mid-morning: A fruit (like banana, apple, or orange) and a handful
  of nuts or seeds.
• Lunch: A balanced plate with half vegetables/salad, one quarter
  whole grains (rice/roti), and one quarter protein (dal, beans,
  fish or lean meat if usually eaten), plus curd or buttermilk.
• Evening snack: Something light such as boiled chana, sprouts
  chaat, or a small sandwich with vegetables.
• Dinner: Similar to lunch but a little lighter, with more cooked
  vegetables and easy-to-digest foods.
• Hydration: Small, frequent sips of water through the day; coconut
  water or lemon water if tolerated.

This is only a **generic wellness example**. It does not replace the
personalised advice of your obstetrician or a qualified dietician.
Any special conditions like diabetes, high blood pressure, or
anaemia must be managed strictly as per your doctor's plan.
`, date, cuisine)
}

func healthSearchFallback(message string) string {
	return "Sorry, I couldn't fetch a live AI answer right now.\n\n" + message
}

type patternReading struct {
	RecordedAt  time.Time `json:"recorded_at"`
	FetalHR     *int      `json:"fetal_hr"`
	MaternalHR  *int      `json:"maternal_hr"`
	SystolicBP  *int      `json:"systolic_bp"`
	DiastolicBP *int      `json:"diastolic_bp"`
	SpO2        *int      `json:"spo2"`
	Temperature *float64  `json:"temperature"`
}

type patternRisk struct {
	CreatedAt time.Time `json:"created_at"`
	RiskLevel string    `json:"risk_level"`
	RiskScore *float64  `json:"risk_score"`
	Reason    string    `json:"reason"`
}

func buildPatternsPrompt(patient models.Patient, readings []models.Reading, evaluations []models.RiskEvaluation) (string, error) {
	readingsPayload := make([]patternReading, 0, len(readings))
	for _, reading := range readings {
		readingsPayload = append(readingsPayload, patternReading{
			RecordedAt:  reading.RecordedAt,
			FetalHR:     reading.FetalHR,
			MaternalHR:  reading.MaternalHR,
			SystolicBP:  reading.SystolicBP,
			DiastolicBP: reading.DiastolicBP,
			SpO2:        reading.SpO2,
			Temperature: reading.Temperature,
		})
	}
	risksPayload := make([]patternRisk, 0, len(evaluations))
	for _, evaluation := range evaluations {
		risksPayload = append(risksPayload, patternRisk{
			CreatedAt: evaluation.CreatedAt,
			RiskLevel: evaluation.RiskLevel,
			RiskScore: evaluation.RiskScore,
			Reason:    evaluation.Reason,
		})
	}

	readingsJSON, err := json.Marshal(readingsPayload)
	if err != nil {
		return "", err
	}
	risksJSON, err := json.Marshal(risksPayload)
	if err != nil {
		return "", err
	}

	details := make([]string, 0, 2)
	if patient.Age != nil {
		details = append(details, fmt.Sprintf("Age: %d", *patient.Age))
	}
	if patient.GestationWeeks != nil {
		details = append(details, fmt.Sprintf("Gestational age: %d weeks", *patient.GestationWeeks))
	}

	return fmt.Sprintf(`We have a pregnant patient with the following context:
%s

Below are up to 40 recent vital readings (most recent first):
%s

And up to 40 recent risk evaluations:
%s

Please:
- Describe any clear patterns or trends (e.g., consistently high BP, spikes in HR, stable vitals, etc.).
- Highlight periods where risk level went from normal → warning → critical (or vice versa).
- Comment on whether things appear to be stabilizing, improving, or worsening.
- Suggest gentle, non-alarming guidance such as "mention this pattern at your next visit"
  or "contact your doctor sooner if symptoms appear".
- Keep the answer in 2–4 short paragraphs, plain language, no medical jargon.
`, strings.Join(details, ", "), readingsJSON, risksJSON), nil
}

func patternsFallback(reason string) string {
	return fmt.Sprintf(`Based on the available history, this tool could not generate an
AI summary right now (reason: %s).

You can still review the vitals and risk history manually in the
dashboard. Look for:
- Any repeated high blood pressure readings,
- Persistent abnormal heart rates,
- Frequent transitions into warning or critical risk levels.

If you notice worrying trends or new symptoms, please contact a
qualified healthcare provider for advice.
`, reason)
}

func quoteOrNil(value *string) string {
	if value == nil {
		return "nil"
	}
	return strconv.Quote(*value)
}

func floatOrNil(value *float64) string {
	if value == nil {
		return "nil"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func intOrNil(value *int) string {
	if value == nil {
		return "nil"
	}
	return strconv.Itoa(*value)
}
