package handler

// Machine-readable status signals returned to API clients.
const (
	StatusFileTypeNotSupported = "file_type_not_supported"
	StatusFileSizeExceeded     = "file_size_exceeded"
	StatusFileUploadSuccess    = "file_upload_success"
	StatusFileUploadFailed     = "file_upload_failed"
	StatusFileNotFound         = "file_not_found"

	StatusProcessingSuccess = "processing_success"
	StatusProcessingFailed  = "processing_failed"

	StatusProjectNotFound = "project_not_found_error"

	StatusVectorDBInsertSuccess = "insert_into_vectordb_success"
	StatusVectorDBInsertError   = "insert_into_vectordb_error"
	StatusCollectionRetrieved   = "vectordb_collection_retrieved"
	StatusCollectionNotFound    = "vectordb_collection_not_found"
	StatusCollectionReset       = "vectordb_collection_reset"
	StatusSearchSuccess         = "vectordb_search_success"
	StatusSearchError           = "vectordb_search_error"
	StatusRAGAnswerReady        = "rag_answer_ready"
	StatusRAGAnswerError        = "rag_answer_error"
)
