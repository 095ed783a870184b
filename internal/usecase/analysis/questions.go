package analysis

// referenceQuestions is the fixed set of assessment questions every
// document is interrogated with. Order matters: the retrieval results
// are handed to the synthesizer in this order.
var referenceQuestions = []string{
	"Can you provide a detailed overview of the company's most significant cybersecurity risks, including potential threats, their likelihood, and potential business impact?",
	"What are the current gaps in the organization's security infrastructure, and how do they align with (or deviate from) the NIST Cybersecurity Framework across its five core functions (Identify, Protect, Detect, Respond, Recover)?",
	"Based on your current security assessment, what are the top priority recommendations for improving the company's cybersecurity posture, including their potential implementation complexity and expected business impact?",
	"How would you characterize the overall maturity of your organization's cybersecurity strategy, including key achievements, challenges, and strategic direction?",
	"What specific security incidents, if any, has the organization experienced in the past year, and what were the key learnings and mitigation strategies implemented?",
}

// Questions returns a copy of the reference question set.
func Questions() []string {
	out := make([]string, len(referenceQuestions))
	copy(out, referenceQuestions)
	return out
}
