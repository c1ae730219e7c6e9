package prompt

// Prompt template groups and keys used by the answering pipeline.
const (
	GroupRAG        = "rag"
	KeySystemPrompt = "system_prompt"
	KeyDocument     = "document_prompt"
	KeyFooter       = "footer_prompt"
)

// locales holds the built-in template bodies, keyed by language, group and
// key. Bodies are text/template sources rendered with a vars map.
var locales = map[string]map[string]map[string]string{
	"en": {
		GroupRAG: {
			KeySystemPrompt: "You are an assistant tasked with generating a response for the user.\n" +
				"You will be provided with a set of documents related to the user's query.\n" +
				"Your response must be based solely on the content of the provided documents.\n" +
				"Ignore any documents that are not relevant to the user's query.\n" +
				"You may politely apologize if you're unable to generate a relevant response.\n" +
				"Ensure your response is in the same language as the user's query.\n" +
				"Be polite and respectful to the user.\n" +
				"Be precise and concise. Avoid including unnecessary information.",
			KeyDocument: "## Document No: {{.doc_num}}\n" +
				"### Content:\n" +
				"{{.chunk_text}}",
			KeyFooter: "Based solely on the above documents, please generate a response to the user query.\n" +
				"## Question:\n" +
				"{{.query}}\n" +
				"\n" +
				"## Answer:",
		},
	},
	"ar": {
		GroupRAG: {
			KeySystemPrompt: "أنت مساعد مهمته توليد إجابة للمستخدم.\n" +
				"سيتم تزويدك بمجموعة من المستندات المتعلقة باستفسار المستخدم.\n" +
				"يجب أن تعتمد إجابتك على محتوى المستندات المقدمة فقط.\n" +
				"تجاهل أي مستندات لا صلة لها باستفسار المستخدم.\n" +
				"يمكنك الاعتذار بأدب إذا لم تتمكن من توليد إجابة مناسبة.\n" +
				"تأكد من أن إجابتك بنفس لغة استفسار المستخدم.\n" +
				"كن دقيقاً وموجزاً وتجنب المعلومات غير الضرورية.",
			KeyDocument: "## المستند رقم: {{.doc_num}}\n" +
				"### المحتوى:\n" +
				"{{.chunk_text}}",
			KeyFooter: "اعتماداً على المستندات أعلاه فقط، يرجى توليد إجابة على استفسار المستخدم.\n" +
				"## السؤال:\n" +
				"{{.query}}\n" +
				"\n" +
				"## الإجابة:",
		},
	},
}
