package report

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// fallbackCategory is one canned-report category matched by keyword.
type fallbackCategory struct {
	name       string
	keywords   []string
	assessment string
	redFlags   []string
	otc        []OTCRecommendation
	lifestyle  []string
	seekHelp   string
}

var fallbackCategories = []fallbackCategory{
	{
		name:       "headache",
		keywords:   []string{"headache", "head ache", "migraine", "head pain"},
		assessment: "Headache is most commonly tension-type or migraine in otherwise healthy adults. Dehydration, eye strain, poor sleep and stress are frequent contributors. Secondary causes are uncommon but should be considered if the pattern changes.",
		redFlags:   []string{"Sudden severe (thunderclap) headache", "Headache with fever and stiff neck", "New neurological symptoms such as weakness or vision loss", "Headache after head injury"},
		otc: []OTCRecommendation{{
			Medicine:     "Ibuprofen (Advil, Motrin)",
			Dosage:       "200-400mg every 4-6 hours as needed",
			Purpose:      "Relieve headache pain and inflammation",
			Instructions: "Take with food or milk to reduce stomach upset.",
			Precautions:  "Avoid with stomach ulcers, kidney disease, or blood thinners.",
			MaxDuration:  "3 days",
		}},
		lifestyle: []string{"Stay hydrated", "Rest in a quiet, dark room", "Apply a cold or warm compress", "Maintain a regular sleep schedule"},
		seekHelp:  "Seek immediate care for a sudden severe headache, headache with fever and stiff neck, or any new neurological symptoms.",
	},
	{
		name:       "fever",
		keywords:   []string{"fever", "high temperature", "chills", "feverish"},
		assessment: "Fever most often reflects a self-limiting viral infection, but bacterial infection must be ruled out when it persists. Fever lasting more than 3 days or exceeding 39.4C (103F) warrants medical evaluation.",
		redFlags:   []string{"Fever above 103F (39.4C)", "Fever lasting more than 3 days", "Difficulty breathing", "Confusion or severe drowsiness"},
		otc: []OTCRecommendation{{
			Medicine:     "Acetaminophen (Tylenol)",
			Dosage:       "325-650mg every 4-6 hours as needed",
			Purpose:      "Reduce fever and relieve pain",
			Instructions: "Take with food. Do not exceed 3000mg in 24 hours.",
			Precautions:  "Avoid with liver disease or heavy alcohol use.",
			MaxDuration:  "3-5 days",
		}},
		lifestyle: []string{"Rest and stay hydrated", "Use light clothing and cool compresses", "Monitor temperature regularly"},
		seekHelp:  "Seek immediate medical attention for fever above 103F, difficulty breathing, confusion, or fever lasting more than 3 days without improvement.",
	},
	{
		name:       "nausea",
		keywords:   []string{"nausea", "nauseous", "vomiting", "queasy", "throwing up"},
		assessment: "Nausea with or without vomiting is usually caused by viral gastroenteritis, food intolerance or motion sickness. Dehydration is the main short-term risk, particularly in the very young and elderly.",
		redFlags:   []string{"Signs of dehydration (dark urine, dizziness on standing)", "Blood in vomit", "Severe abdominal pain", "Vomiting lasting more than 24 hours"},
		otc: []OTCRecommendation{{
			Medicine:     "Bismuth subsalicylate (Pepto-Bismol)",
			Dosage:       "524mg every 30-60 minutes as needed",
			Purpose:      "Relieve nausea and upset stomach",
			Instructions: "Chew tablets thoroughly or take liquid form.",
			Precautions:  "Avoid with aspirin allergy. Not for children with viral illness.",
			MaxDuration:  "2 days",
		}},
		lifestyle: []string{"Sip clear fluids frequently in small amounts", "Eat bland foods (crackers, rice, toast)", "Avoid strong odors and fatty foods"},
		seekHelp:  "Seek care if vomiting persists beyond 24 hours, you cannot keep fluids down, or there is blood in the vomit.",
	},
	{
		name:       "sore throat",
		keywords:   []string{"sore throat", "throat pain", "painful swallowing", "scratchy throat"},
		assessment: "Sore throat is most often viral pharyngitis and resolves within a week. Streptococcal infection should be considered with fever, swollen lymph nodes and absence of cough.",
		redFlags:   []string{"Difficulty breathing or swallowing", "Drooling or muffled voice", "High fever with rash", "Symptoms beyond 7 days"},
		otc: []OTCRecommendation{{
			Medicine:     "Benzocaine lozenges (Cepacol)",
			Dosage:       "1 lozenge every 2 hours as needed",
			Purpose:      "Numb throat pain temporarily",
			Instructions: "Allow to dissolve slowly in the mouth.",
			Precautions:  "Not for children under 5.",
			MaxDuration:  "3 days",
		}},
		lifestyle: []string{"Gargle with warm salt water", "Drink warm fluids such as tea with honey", "Use a humidifier"},
		seekHelp:  "Seek urgent care for difficulty breathing or swallowing, or a sore throat with high fever lasting more than 2 days.",
	},
	{
		name:       "cough",
		keywords:   []string{"cough", "coughing", "dry cough", "chesty cough"},
		assessment: "Acute cough most commonly follows a viral upper respiratory infection and settles within 3 weeks. A productive cough with fever or breathlessness raises concern for lower respiratory infection.",
		redFlags:   []string{"Coughing up blood", "Shortness of breath or wheezing", "Chest pain with coughing", "Cough lasting more than 3 weeks"},
		otc: []OTCRecommendation{{
			Medicine:     "Dextromethorphan (Robitussin DM)",
			Dosage:       "10-20mg every 4 hours as needed",
			Purpose:      "Suppress dry, non-productive cough",
			Instructions: "Do not combine with other cough and cold products.",
			Precautions:  "Avoid with MAO inhibitors. Not for children under 4.",
			MaxDuration:  "7 days",
		}},
		lifestyle: []string{"Stay hydrated to thin mucus", "Use honey for throat soothing (adults and children over 1)", "Avoid smoke and other irritants"},
		seekHelp:  "Seek care for coughing up blood, breathlessness, chest pain, or a cough that lasts beyond 3 weeks.",
	},
	{
		name:       "fatigue",
		keywords:   []string{"fatigue", "tired", "exhausted", "low energy", "weakness"},
		assessment: "Fatigue is a non-specific symptom most often related to sleep debt, stress, viral illness or deconditioning. Persistent fatigue beyond 2 weeks despite adequate rest deserves evaluation for anemia, thyroid dysfunction and mood disorders.",
		redFlags:   []string{"Fatigue with unexplained weight loss", "Fatigue with chest pain or breathlessness", "Fatigue persisting beyond 2 weeks despite rest"},
		otc: []OTCRecommendation{{
			Medicine:     "Multivitamin with iron",
			Dosage:       "1 tablet daily",
			Purpose:      "Address possible nutritional deficiency",
			Instructions: "Take with food in the morning.",
			Precautions:  "Keep away from children; iron overdose is dangerous.",
			MaxDuration:  "Ongoing as directed",
		}},
		lifestyle: []string{"Aim for 7-9 hours of sleep on a regular schedule", "Light daily exercise such as walking", "Limit caffeine and alcohol", "Stay hydrated"},
		seekHelp:  "Seek evaluation if fatigue persists beyond 2 weeks, or sooner with weight loss, fever or breathlessness.",
	},
	{
		name:       "abdominal pain",
		keywords:   []string{"abdominal pain", "stomach ache", "stomach pain", "belly pain", "cramps"},
		assessment: "Mild abdominal pain is commonly caused by indigestion, gas or viral gastroenteritis. Localized severe pain, especially in the right lower abdomen, requires urgent assessment to exclude appendicitis.",
		redFlags:   []string{"Severe or worsening localized pain", "Rigid or tender abdomen", "Blood in stool or vomit", "Pain with fever and vomiting"},
		otc: []OTCRecommendation{{
			Medicine:     "Simethicone (Gas-X)",
			Dosage:       "125mg after meals and at bedtime as needed",
			Purpose:      "Relieve gas-related discomfort and bloating",
			Instructions: "Chew tablets thoroughly.",
			Precautions:  "Generally well tolerated; see a doctor if pain persists.",
			MaxDuration:  "2 days",
		}},
		lifestyle: []string{"Eat smaller, bland meals", "Avoid fatty and spicy foods", "Apply a warm compress to the abdomen"},
		seekHelp:  "Seek urgent care for severe localized pain, a rigid abdomen, blood in stool, or pain with persistent fever.",
	},
	{
		name:       "dizziness",
		keywords:   []string{"dizziness", "dizzy", "lightheaded", "vertigo", "light headed"},
		assessment: "Dizziness is frequently caused by dehydration, postural blood-pressure changes or inner-ear disturbance (benign positional vertigo). Cardiac and neurological causes are less common but must be considered with associated symptoms.",
		redFlags:   []string{"Dizziness with chest pain or palpitations", "Fainting or near-fainting", "Slurred speech, facial droop or limb weakness", "Severe sudden headache"},
		otc: []OTCRecommendation{{
			Medicine:     "Meclizine (Bonine)",
			Dosage:       "25mg every 24 hours as needed",
			Purpose:      "Relieve vertigo and motion-related dizziness",
			Instructions: "May cause drowsiness; take at night if possible.",
			Precautions:  "Avoid alcohol. Use caution when driving.",
			MaxDuration:  "3 days",
		}},
		lifestyle: []string{"Rise slowly from sitting or lying positions", "Stay hydrated", "Avoid sudden head movements"},
		seekHelp:  "Seek emergency care for dizziness with chest pain, fainting, or any stroke-like symptoms.",
	},
	{
		name:       "rash",
		keywords:   []string{"rash", "skin rash", "itchy skin", "hives", "itching"},
		assessment: "Localized rash without systemic symptoms is usually contact dermatitis, eczema or a mild allergic reaction. A spreading rash with fever or one involving mucous membranes needs prompt assessment.",
		redFlags:   []string{"Rash with fever", "Rapidly spreading or blistering rash", "Rash with facial or tongue swelling", "Rash that does not blanch with pressure"},
		otc: []OTCRecommendation{{
			Medicine:     "Hydrocortisone 1% cream",
			Dosage:       "Apply a thin layer 2-3 times daily",
			Purpose:      "Reduce itching and inflammation",
			Instructions: "Apply to clean, dry skin. Avoid the face unless directed.",
			Precautions:  "Do not use on broken or infected skin.",
			MaxDuration:  "7 days",
		}, {
			Medicine:     "Cetirizine (Zyrtec)",
			Dosage:       "10mg once daily",
			Purpose:      "Relieve allergic itching and hives",
			Instructions: "May be taken with or without food.",
			Precautions:  "May cause mild drowsiness.",
			MaxDuration:  "7 days",
		}},
		lifestyle: []string{"Avoid scratching and known irritants", "Use fragrance-free moisturizer", "Wear loose cotton clothing"},
		seekHelp:  "Seek emergency care for a rash with facial swelling or breathing difficulty, or a rapidly spreading rash with fever.",
	},
}

// SelectFallback keyword-matches the reported symptoms and feeling against
// the fixed category list and returns a canned report for the first matching
// category, or nil when nothing matches. Used to skip the model for common
// presentations and as the offline fallback when the model fails.
func SelectFallback(symptoms []string, feeling string, age int) *Payload {
	haystack := strings.ToLower(strings.Join(append(append([]string{}, symptoms...), feeling), " "))

	for _, cat := range fallbackCategories {
		matched := lo.SomeBy(cat.keywords, func(kw string) bool {
			return strings.Contains(haystack, kw)
		})
		if !matched {
			continue
		}

		return &Payload{
			ChiefComplaint:        fmt.Sprintf("Patient reports %s, feeling %s.", cat.name, feeling),
			HistoryPresentIllness: fmt.Sprintf("%d-year-old patient presenting with %s. Reported symptoms: %s.", age, cat.name, strings.Join(symptoms, ", ")),
			Assessment:            cat.assessment,
			DiagnosticPlan: DiagnosticPlan{
				Consultations: []string{"Primary care physician if symptoms persist or worsen"},
				Tests:         []string{"None required for mild, short-lived symptoms"},
				RedFlags:      cat.redFlags,
				FollowUp:      "Monitor symptoms and re-assess in 48-72 hours.",
			},
			OTCRecommendations:       cat.otc,
			LifestyleRecommendations: cat.lifestyle,
			WhenToSeekHelp:           cat.seekHelp,
			Disclaimer:               StandardDisclaimer,
		}
	}
	return nil
}

// MatchSymptoms scans free text (e.g. a voice transcript) for known symptom
// keywords and returns the canonical category names found, in category order.
func MatchSymptoms(transcript string) []string {
	haystack := strings.ToLower(transcript)
	var matched []string
	for _, cat := range fallbackCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, cat.name)
				break
			}
		}
	}
	return matched
}
