package hap

// Classifier resolves TXT record integers against the tables in this package.
// The zero value is ready to use.
type Classifier struct{}

// Category classifies a "ci" value.
func (Classifier) Category(v int) (Category, error) {
	return ParseCategory(v)
}

// StatusFlags classifies an "sf" value.
func (Classifier) StatusFlags(v int) (StatusFlags, error) {
	return ParseStatusFlags(v)
}

// FeatureFlags classifies an "ff" value.
func (Classifier) FeatureFlags(v int) (FeatureFlags, error) {
	return ParseFeatureFlags(v)
}
