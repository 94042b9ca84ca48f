package atp

// Phonology realizes a suffix on a lemma. Suffix rules call it both when they
// are created and when they are matched against later pairs, so every
// allomorph it produces counts as the same rule.
type Phonology interface {
	Suffix(lemma, suffix string) string
}

// Concatenation is the default phonology: the suffix is appended verbatim.
type Concatenation struct{}

func (Concatenation) Suffix(lemma, suffix string) string {
	return lemma + suffix
}

// EnglishPhonology is a toy model of English suffixation that treats the
// allomorphs of /-z/ and /-d/ as one suffix. The suffix agrees in voicing with
// the last segment of the lemma, then [ɪ] is inserted between two sibilants or
// between two alveolar stops.
type EnglishPhonology struct{}

type segment struct {
	vowel    bool
	voiced   bool
	sibilant bool
}

// segments classifies the IPA symbols the engine cares about. Symbols absent
// from the table (length marks, stress, diacritics) are skipped.
var segments = func() map[rune]segment {
	m := make(map[rune]segment)
	for _, r := range "aeiouyæɑɒɐəɚɛɜɝɞɘɤɨɪɯɵɶɔʉʊʌʏøœ" {
		m[r] = segment{vowel: true, voiced: true}
	}
	for _, r := range "ptkqcʔfθçxχħhʈʍɬɸ" {
		m[r] = segment{}
	}
	for _, r := range "sʃɕʂʧʦ" {
		m[r] = segment{sibilant: true}
	}
	for _, r := range "bdgɡɖɟɢmnŋɲɳɴɱvðβʝɣʁʕɦlɫɭʎʟrɾɹɻʀɽjwɰʋɮ" {
		m[r] = segment{voiced: true}
	}
	for _, r := range "zʒʑʐʤʣ" {
		m[r] = segment{voiced: true, sibilant: true}
	}
	return m
}()

var voicingPartner = map[rune]rune{'s': 'z', 'z': 's', 't': 'd', 'd': 't'}

func (e EnglishPhonology) Suffix(lemma, suffix string) string {
	if suffix == "" {
		return lemma
	}
	return e.epenthesis(e.voicing(lemma, suffix))
}

// voicing makes an s/z/d/t-initial suffix agree in voicing with the lemma.
func (EnglishPhonology) voicing(lemma, suffix string) string {
	sr := []rune(suffix)
	partner, ok := voicingPartner[sr[0]]
	if !ok {
		return lemma + suffix
	}
	lr := []rune(lemma)
	i := len(lr) - 1
	for i >= 0 {
		if _, known := segments[lr[i]]; known {
			break
		}
		i--
	}
	if i < 0 {
		return lemma + suffix
	}
	if segments[lr[i]].voiced == segments[sr[0]].voiced {
		return lemma + suffix
	}
	sr[0] = partner
	return lemma + string(sr)
}

// epenthesis inserts [ɪ] before a final s/z after a sibilant, and before a
// final t/d after t/d.
func (EnglishPhonology) epenthesis(form string) string {
	r := []rune(form)
	if len(r) < 2 {
		return form
	}
	prev, last := r[len(r)-2], r[len(r)-1]
	if segments[prev].vowel || segments[last].vowel {
		return form
	}
	head := string(r[:len(r)-1])
	if segments[prev].sibilant && (last == 's' || last == 'z') {
		return head + "ɪz"
	}
	if (prev == 't' || prev == 'd') && (last == 't' || last == 'd') {
		return head + "ɪd"
	}
	return form
}
