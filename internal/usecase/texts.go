package usecase

import "github.com/iamvkosarev/learning-assistant/pkg/local"

var (
	TextGreeting = local.NewSet(
		"Hello! I'm your AI Learning Assistant. I can help you find courses, explain concepts, and guide your learning journey. How can I help you today?",
		local.NewTrans(local.Rus, "Привет! Я ваш ИИ-помощник по обучению. Я помогу найти курсы, объясню понятия и подскажу, как учиться дальше. Чем могу помочь?"),
	)
	TextBackendUnavailable = local.NewSet(
		"I apologize, but I'm having trouble connecting to the chatbot service. Please make sure the course backend is running.",
		local.NewTrans(local.Rus, "Извините, не удаётся связаться с сервисом чат-бота. Проверьте, что бэкенд курсов запущен."),
	)
	TextProviderSwitched = local.NewSet(
		"Switched to %s AI provider",
		local.NewTrans(local.Rus, "Провайдер ИИ переключён на %s"),
	)
	TextConnectionTesting = local.NewSet(
		"Testing AI connection...",
		local.NewTrans(local.Rus, "Проверяю соединение с ИИ..."),
	)
	TextConnectionSucceeded = local.NewSet(
		"AI Connection Successful! Using %s provider.\nResponse: %q",
		local.NewTrans(local.Rus, "Соединение с ИИ установлено! Провайдер: %s.\nОтвет: %q"),
	)
	TextConnectionFailed = local.NewSet(
		"AI Connection Failed. Please check backend logs.",
		local.NewTrans(local.Rus, "Не удалось связаться с ИИ. Проверьте логи бэкенда."),
	)
)

const connectionTestPrompt = "Hello, are you working? Say yes if you are."

var conversationStarters = []string{
	"What courses do you have?",
	"Explain web development",
	"How do I become a data scientist?",
	"Recommend beginner courses",
	"What is React?",
	"Tell me about Python programming",
	"Help me with machine learning",
	"Search for JavaScript courses",
	"Find data science courses",
}

func ConversationStarters() []string {
	return append([]string(nil), conversationStarters...)
}
