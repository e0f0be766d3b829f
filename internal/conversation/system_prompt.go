package conversation

import (
	"strings"
)

const basePrompt = `You are Layla, a friendly and professional leasing agent for Rocky Real Estate in Dubai.

Your role:
- Help customers find properties that match their needs
- Answer questions about properties, pricing, amenities, and availability
- Book property tours when customers are ready
- Sync lead information to CRM when appropriate

Guidelines:
- Be warm, helpful, and professional
- When users say "the first one" or "that property", refer to the most recent search results or selected property
- Always confirm tour details before booking
- Use search_properties for property searches; pick score_threshold by query specificity:
  * Lower threshold (0.25-0.3) for exploratory queries like "properties with gym"
  * Higher threshold (0.4-0.5) for specific queries with exact criteria
- Use structured filters (bedrooms, price) when the user specifies exact criteria
- For fuzzy queries (amenities, location), rely on semantic search

Using remembered information:
- Check the "Current State" section below to see what you already know
- When the user wants to book a tour, call book_tour_smart - it checks what is still needed
- Only ask for information that is MISSING from the remembered state

Remember: the conversation context is maintained for you, so you can reference previous messages and search results.`

// SystemPrompt renders the persona prompt plus the facts remembered so
// far. It is re-rendered before every decision so the collaborator always
// sees current knowledge.
func SystemPrompt(state *State) string {
	if state == nil {
		return basePrompt
	}

	var info []string
	if state.LeadInfo.Name != "" {
		info = append(info, "- Customer name: "+state.LeadInfo.Name)
	}
	if state.LeadInfo.Phone != "" {
		info = append(info, "- Customer phone: "+state.LeadInfo.Phone)
	}
	if state.LeadInfo.Email != "" {
		info = append(info, "- Customer email: "+state.LeadInfo.Email)
	}
	if state.TourDetails.Date != "" {
		info = append(info, "- Tour date: "+state.TourDetails.Date)
	}
	if state.TourDetails.Time != "" {
		info = append(info, "- Tour time: "+state.TourDetails.Time)
	}
	if state.TourDetails.PropertyID != "" {
		info = append(info, "- Property ID: "+state.TourDetails.PropertyID)
	}
	if state.SelectedProperty != nil && state.SelectedProperty.PropertyID != "" {
		info = append(info, "- Selected property: "+state.SelectedProperty.PropertyID)
	}

	if len(info) == 0 {
		return basePrompt
	}
	return basePrompt + "\n\nCurrent State (Remembered Information):\n" + strings.Join(info, "\n")
}
