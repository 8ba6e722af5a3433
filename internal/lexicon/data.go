package lexicon

// DefaultVersion identifies the built-in word lists.
const DefaultVersion = "v1"

var defaultStopWords = []string{
	// Korean
	"그리고", "하지만", "그러나", "그러면서", "또는", "또한",
	"이것", "저것", "그것",
	"있는", "하는", "되는",
	"통해", "대한", "위한", "같은", "많은",
	// English
	"the", "is", "are", "and", "or", "for", "with", "this", "that",
	"from", "into", "about", "your", "our", "has", "have", "can", "will",
	"been", "more", "when", "they", "them", "their", "what", "which",
}

var defaultInterrogativeCues = []string{
	"어떻게", "언제", "왜", "무엇", "가능", "방법",
	"비용", "기간", "차이", "추천", "어디", "누가",
}

type lexiconDTO struct {
	Version           string   `json:"version"`
	StopWords         []string `json:"stopWords"`
	InterrogativeCues []string `json:"interrogativeCues"`
}
