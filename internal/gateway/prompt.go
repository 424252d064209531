package gateway

// BuildCheckExtractionPrompt returns the prompt used to extract structured
// fields from a bank check image. The model is asked for JSON but the reply
// is still treated as free-form text downstream.
func BuildCheckExtractionPrompt() string {
	return `Analyze this bank check image and extract the following information in JSON format:
{
    "check_number": "check number",
    "amount": "dollar amount (numeric value only)",
    "amount_in_words": "amount written in words",
    "payee": "pay to the order of",
    "date": "date on check (YYYY-MM-DD format)",
    "bank_name": "bank name",
    "account_number": "account number",
    "routing_number": "routing number",
    "memo": "memo field",
    "signature_present": "true/false",
    "potential_fraud_indicators": ["list any suspicious elements"]
}

If any field is not clearly visible or missing, use "N/A" as the value.
Be very careful with the amount extraction - it should be a numeric value.`
}

// BuildSignaturePrompt returns the prompt used for the second model call that
// judges signature authenticity.
func BuildSignaturePrompt() string {
	return `Analyze the signature on this check image and provide a detailed assessment:

1. Signature quality and consistency
2. Pen pressure variations
3. Natural flow vs. traced appearance
4. Any signs of forgery or alteration
5. Overall authenticity score (0-100)

Provide response in JSON format:
{
    "signature_quality": "description",
    "authenticity_score": numeric_score,
    "fraud_indicators": ["list of concerns"],
    "recommendation": "accept/review/reject"
}`
}
