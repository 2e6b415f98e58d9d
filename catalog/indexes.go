package catalog

import "math"

// buildTagIDF computes ln(N/df) for every tag across the catalog.
func (c *Catalog) buildTagIDF() {
	n := float64(len(c.order))
	df := make(map[string]int)
	for _, name := range c.order {
		for _, tag := range c.entries[name].Tags {
			df[tag]++
		}
	}

	idf := make(map[string]float64, len(df))
	for tag, count := range df {
		idf[tag] = math.Log(n / float64(count))
	}
	c.tagIDF = idf
	c.logger.Debug("built tag IDF index", "tags", len(idf))
}

// Vectors returns the cached TF-IDF document vectors, one sparse
// term-weight map per tool. Term frequency is normalized by the maximum
// in-document frequency; IDF is smoothed as ln((N+1)/(df+1))+1.
func (c *Catalog) Vectors() map[string]map[string]float64 {
	c.vecOnce.Do(c.buildVectors)
	return c.vectors
}

// QueryVector builds a TF-IDF vector for a set of query tokens using the
// corpus IDF weights. Tokens outside the corpus vocabulary are dropped.
func (c *Catalog) QueryVector(tokens []string) map[string]float64 {
	c.vecOnce.Do(c.buildVectors)

	tf := make(map[string]int)
	maxFreq := 0
	for _, token := range tokens {
		if _, known := c.idf[token]; !known {
			continue
		}
		tf[token]++
		if tf[token] > maxFreq {
			maxFreq = tf[token]
		}
	}
	if maxFreq == 0 {
		return nil
	}

	vec := make(map[string]float64, len(tf))
	for token, count := range tf {
		vec[token] = float64(count) / float64(maxFreq) * c.idf[token]
	}
	return vec
}

func (c *Catalog) buildVectors() {
	c.docOnce.Do(c.buildDocuments)

	// Document frequency over the dense token surface
	n := float64(len(c.order))
	df := make(map[string]int)
	for _, name := range c.order {
		seen := make(map[string]bool)
		for _, token := range c.docs[name].Tokens {
			if !seen[token] {
				df[token]++
				seen[token] = true
			}
		}
	}

	idf := make(map[string]float64, len(df))
	for token, count := range df {
		idf[token] = math.Log((n+1)/float64(count+1)) + 1
	}

	vectors := make(map[string]map[string]float64, len(c.order))
	for _, name := range c.order {
		tf := make(map[string]int)
		maxFreq := 0
		for _, token := range c.docs[name].Tokens {
			tf[token]++
			if tf[token] > maxFreq {
				maxFreq = tf[token]
			}
		}
		vec := make(map[string]float64, len(tf))
		for token, count := range tf {
			vec[token] = float64(count) / float64(maxFreq) * idf[token]
		}
		vectors[name] = vec
	}

	c.idf = idf
	c.vectors = vectors
	c.logger.Debug("built document vectors", "tools", len(vectors), "vocabulary", len(idf))
}

// CosineSparse computes the cosine similarity of two sparse vectors.
func CosineSparse(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
