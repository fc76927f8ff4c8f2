package explain

import (
	"fmt"
	"strings"

	"github.com/crimesight/crime-risk-service/internal/models"
)

// ForLLM renders a RagResult as the plain-text context block injected into
// the downstream language model's prompt. The block instructs the consumer
// never to fabricate a probability when parameters are missing, and to
// preserve the exact percentage value when one is present.
func ForLLM(result *models.RagResult) string {
	var b strings.Builder
	b.WriteString("### Crime Prediction Context:\n")

	if result.FollowUp != nil {
		b.WriteString("IMPORTANT: DO NOT MAKE A PREDICTION. Required parameters are missing.\n\n")
		fmt.Fprintf(&b, "Missing information: %s\n", strings.Join(result.FollowUp.MissingInfo, ", "))
		fmt.Fprintf(&b, "Follow-up needed: %s\n\n", result.FollowUp.Question)
		b.WriteString("Do not make up any crime probabilities. Ask the user for the missing information.\n")
		return b.String()
	}

	if result.Error != "" {
		b.WriteString("IMPORTANT: DO NOT MAKE A PREDICTION. The prediction is unavailable.\n\n")
		fmt.Fprintf(&b, "Prediction error: %s\n", result.Error)
		b.WriteString("Do not make up any crime probabilities. Tell the user the prediction could not be produced.\n")
		return b.String()
	}

	if result.Probability != nil {
		fmt.Fprintf(&b, "Crime probability: %.1f%% (IMPORTANT: always present this exact percentage value in your response)\n\n",
			*result.Probability*100)
	}

	if result.Explanation != "" {
		fmt.Fprintf(&b, "%s\n\n", result.Explanation)
	}

	if result.WeeklyForecast {
		b.WriteString("This is a weekly forecast request. Note that for weekly forecasts, only location is required.\n")
		b.WriteString("Inform the user that the weekly forecast is being processed and will be displayed shortly.\n")
		return b.String()
	}

	b.WriteString("IMPORTANT INSTRUCTIONS:\n" +
		"1. When reporting the probability in your response, always use the exact percentage value provided above.\n" +
		"2. Never convert to a different scale or format.\n" +
		"3. If any parameters are missing, ask for them instead of providing a prediction.\n" +
		"4. Never make up crime probabilities - only use the exact values provided.\n")

	return b.String()
}
