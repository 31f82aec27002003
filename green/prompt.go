package green

import "strings"

// promptTemplate is the judging instruction handed to the generation model.
// The response format it dictates is the grammar ParseCounts and
// ExtractSentences recover, so the two must stay in sync.
const promptTemplate = `Objective: Evaluate the accuracy of a candidate radiology report in comparison to a reference radiology report composed by expert radiologists.

    Process Overview: You will be presented with:

    1. The criteria for making a judgment.
    2. The reference radiology report.
    3. The candidate radiology report.
    4. The desired format for your assessment.

    1. Criteria for Judgment:

    For the candidate report, determine:

    The count of clinically significant errors.
    The count of clinically insignificant errors.

    Errors can fall into one of these categories:

    a) False report of a finding in the candidate.
    b) Missing a finding present in the reference.
    c) Misidentification of a finding's anatomic location/position.
    d) Misassessment of the severity of a finding.
    e) Mentioning a comparison that isn't in the reference.
    f) Omitting a comparison detailing a change from a prior study.

    Note: Concentrate on the clinical findings rather than the report's writing style. Evaluate only the findings that appear in both reports.

    2. Reference Report:
    %REFERENCE%

    3. Candidate Report:
    %CANDIDATE%

    4. Reporting Your Assessment:

    Follow this specific format for your output, even if no errors are found:
    ` + "```" + `
    [Explanation]:
    <Explanation>

    [Clinically Significant Errors]:
    (a) <Error Type>: <The number of errors>. <Error 1>; <Error 2>; ...; <Error n>
    ....
    (f) <Error Type>: <The number of errors>. <Error 1>; <Error 2>; ...; <Error n>

    [Clinically Insignificant Errors]:
    (a) <Error Type>: <The number of errors>. <Error 1>; <Error 2>; ...; <Error n>
    ....
    (f) <Error Type>: <The number of errors>. <Error 1>; <Error 2>; ...; <Error n>

    [Matched Findings]:
    <The number of matched findings>. <Finding 1>; <Finding 2>; ...; <Finding n>
    ` + "```" + `
`

// MakePrompt builds the judging prompt for one reference/candidate pair.
func MakePrompt(reference, candidate string) string {
	prompt := strings.Replace(promptTemplate, "%REFERENCE%", reference, 1)
	return strings.Replace(prompt, "%CANDIDATE%", candidate, 1)
}

// CleanResponse strips the prompt echo and chat special tokens from a raw
// completion, leaving only the assessment the parser consumes. Decoded
// outputs often repeat the whole prompt, so the text after the last
// assistant marker or [Explanation]: header is kept.
func CleanResponse(raw string) string {
	response := raw
	if strings.Contains(response, "[Explanation]:") {
		if strings.Contains(response, "<|assistant|>") {
			response = lastSplit(response, "<|assistant|>")
		}
		if strings.Contains(response, "[Explanation]:\n    <Explanation>") {
			response = lastSplit(response, "[Explanation]:\n    <Explanation>")
		} else {
			response = lastSplit(response, "[Explanation]:")
		}
	}
	if i := strings.Index(response, "<|end_of_text|>"); i >= 0 {
		response = response[:i]
	}
	response = strings.ReplaceAll(response, "</s>", "")
	response = strings.ReplaceAll(response, "<unk>", "")
	return response
}

// lastSplit returns the text after the last occurrence of sep.
func lastSplit(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}
