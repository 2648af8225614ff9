package ports

// Regressor is a trained model consumed only through its prediction.
type Regressor interface {
	// Kind names the model family, e.g. "linear" or "random_forest".
	Kind() string
	// NumFeatures is the input width the model was trained on.
	NumFeatures() int
	// Predict returns the model output for one scaled row.
	Predict(x []float64) (float64, error)
}

// Scaler is a fitted per-column transform applied before prediction.
type Scaler interface {
	Kind() string
	NumFeatures() int
	// Transform returns a new row; x is not modified.
	Transform(x []float64) ([]float64, error)
}
