package constant

const (
	ConversationRoleSystem    = "system"
	ConversationRoleUser      = "user"
	ConversationRoleAssistant = "assistant"

	// Persisted preference keys
	PreferenceKeySelectedProducts = "selectedProducts"
	PreferenceKeyTextDirection    = "textDirection"

	RoutineSystemPrompt = "You are a helpful beauty and skincare advisor for L'Oréal. You help users create personalized routines and answer questions about skincare, haircare, makeup, fragrance, and related topics. Be friendly, professional, and knowledgeable."

	FollowUpSystemPrompt = "You are a helpful beauty and skincare advisor for L'Oréal. You help users with questions about skincare, haircare, makeup, fragrance, and related topics. Be friendly, professional, and knowledgeable."

	FollowUpWebSearchSystemPrompt = "You are a helpful beauty and skincare advisor for L'Oréal. You help users with questions about skincare, haircare, makeup, fragrance, and related topics. When web search is enabled, provide current, up-to-date information about L'Oréal products and include relevant links or citations. Be friendly, professional, and knowledgeable."

	// Args: product lines joined by "\n"
	RoutineUserPromptTemplate = "Please create a personalized routine using these products:\n\n%s\n\nProvide a step-by-step routine with tips on how to use each product effectively."

	// Args: brand, name, category, description
	RoutineProductLineTemplate = "- %s %s (%s): %s"

	WebSearchInstructionSuffix = "\n\nPlease search the web for the most current information about L'Oréal products, beauty trends, or related topics. Include any relevant links or sources in your response."
)

// User facing messages
const (
	MessageNoProductsFound    = "No products found matching your search."
	MessageNoSelection        = "No products selected yet. Click on products above to add them."
	MessageEmptySelection     = "Please select at least one product before generating a routine."
	MessageRoutineFailed      = "Sorry, there was an error generating your routine. Please try again."
	MessageQuestionFailed     = "Sorry, there was an error processing your question. Please try again."
	MessageCatalogUnavailable = "Products are unavailable right now. Please try again later."
	MessageStoreUnavailable   = "Your saved selection could not be loaded. Please try again later."
	MessageConversationBusy   = "Please wait for the current answer before asking another question."
	MessageGeneratingRoutine  = "Generating your personalized routine..."
	MessageThinking           = "Thinking..."
	MessageSearchingWeb       = "Searching the web..."
)
