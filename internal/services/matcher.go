package services

import (
	"math"
	"sort"
	"strings"
)

// English stopwords plus job-posting boilerplate that would otherwise
// dominate the term weights.
var stopwords = buildStopwordSet(
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "did", "do", "does", "doing", "down",
	"during", "each", "few", "for", "from", "further", "had", "has", "have",
	"having", "he", "her", "here", "hers", "him", "his", "how", "i", "if", "in",
	"into", "is", "it", "its", "itself", "just", "me", "more", "most", "my",
	"myself", "no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "out", "over", "own", "same", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them", "then",
	"there", "these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "will", "with", "you", "your", "yours",
	// domain stoplist
	"seeking", "expertise", "summary", "responsibilities", "qualifications",
	"must", "ability",
)

func buildStopwordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

type MatcherService interface {
	// KeyMatches returns the top shared high-weight terms between a resume
	// and a job description, for justification text. Empty overlap yields
	// the "No significant matches" sentinel as the only element.
	KeyMatches(resumeText, jobDescText string, topN int) []string

	// FilterByKeywords keeps documents whose full text contains at least
	// one of the comma-separated keywords (case-insensitive substring,
	// OR-semantics). An empty keyword string disables filtering. The
	// result may legitimately be empty.
	FilterByKeywords(docs []Document, keywords string) []Document
}

type tfidfMatcher struct {
	threshold float64
}

func NewMatcherService() MatcherService {
	return &tfidfMatcher{threshold: 0.05}
}

// KeyMatches implements MatcherService.
func (m *tfidfMatcher) KeyMatches(resumeText, jobDescText string, topN int) []string {
	if topN <= 0 {
		topN = 3
	}

	jobTerms := termFrequencies(CleanText(jobDescText))
	resumeTerms := termFrequencies(CleanText(resumeText))

	jobWeights := tfidfWeights(jobTerms, resumeTerms)
	resumeWeights := tfidfWeights(resumeTerms, jobTerms)

	type scoredTerm struct {
		term  string
		score float64
	}

	var common []scoredTerm
	for term, jobWeight := range jobWeights {
		resumeWeight, ok := resumeWeights[term]
		if !ok {
			continue
		}
		if jobWeight > m.threshold && resumeWeight > m.threshold {
			common = append(common, scoredTerm{term: term, score: jobWeight + resumeWeight})
		}
	}

	if len(common) == 0 {
		return []string{SentinelNoMatches}
	}

	sort.Slice(common, func(i, j int) bool {
		if common[i].score != common[j].score {
			return common[i].score > common[j].score
		}
		return common[i].term < common[j].term
	})

	if len(common) > topN {
		common = common[:topN]
	}

	matches := make([]string, len(common))
	for i, st := range common {
		matches[i] = st.term
	}

	return matches
}

// FilterByKeywords implements MatcherService.
func (m *tfidfMatcher) FilterByKeywords(docs []Document, keywords string) []Document {
	if strings.TrimSpace(keywords) == "" {
		return docs
	}

	var terms []string
	for _, keyword := range strings.Split(keywords, ",") {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
			terms = append(terms, keyword)
		}
	}
	if len(terms) == 0 {
		return docs
	}

	var filtered []Document
	for _, doc := range docs {
		lower := strings.ToLower(doc.Text)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				filtered = append(filtered, doc)
				break
			}
		}
	}

	return filtered
}

// termFrequencies counts unigrams and bigrams over the cleaned text, with
// stopwords and one-character tokens dropped.
func termFrequencies(cleanedText string) map[string]float64 {
	var tokens []string
	for _, token := range strings.Fields(cleanedText) {
		if len(token) < 2 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}

	freqs := make(map[string]float64, len(tokens)*2)
	for i, token := range tokens {
		freqs[token]++
		if i+1 < len(tokens) {
			freqs[token+" "+tokens[i+1]]++
		}
	}

	return freqs
}

// tfidfWeights computes smoothed l2-normalized TF-IDF weights for a
// two-document corpus: the document itself and the other document.
func tfidfWeights(doc, other map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(doc))
	var sumSquares float64

	for term, tf := range doc {
		df := 1.0
		if _, ok := other[term]; ok {
			df = 2.0
		}
		// smooth idf over n=2 documents
		idf := math.Log(3.0/(1.0+df)) + 1.0
		w := tf * idf
		weights[term] = w
		sumSquares += w * w
	}

	if sumSquares == 0 {
		return weights
	}

	norm := math.Sqrt(sumSquares)
	for term := range weights {
		weights[term] /= norm
	}

	return weights
}
