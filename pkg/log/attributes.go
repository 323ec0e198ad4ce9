package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "Discretizer".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one estimator instance, e.g. the stored model name.
	EstimatorIDKey = "estimator.id"

	// OperationKey is the operation being performed: "fit", "predict", ...
	OperationKey = "ml.operation"

	// ComponentKey is the package or subsystem emitting the record.
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase: "preprocessing", "training", "inference".
	PhaseKey = "ml.phase"

	// ColumnKey is the name of the predictor column being binned.
	ColumnKey = "data.column"
)

// Data shape.
const (
	// SamplesKey is the number of input rows.
	SamplesKey = "data.samples"

	// TrainableKey is the number of rows that take part in ordered binning.
	TrainableKey = "data.trainable"

	// ExceptionRowsKey is the number of rows held out as exception values.
	ExceptionRowsKey = "data.exception_rows"

	// UniqueValuesKey is the number of distinct trainable predictor values.
	UniqueValuesKey = "data.unique_values"
)

// Binning results.
const (
	// BinsKey is the number of bins in a fitted scheme.
	BinsKey = "binning.bins"

	// SplitKey is a boundary value.
	SplitKey = "binning.split"

	// GainKey is the IV gain of a committed split.
	GainKey = "binning.gain"

	// TotalIVKey is the information value of the fitted scheme.
	TotalIVKey = "binning.total_iv"

	// DirectionKey is the monotonic direction (-1, 0, 1).
	DirectionKey = "binning.direction"

	// LeftWoEKey and RightWoEKey are the WoE of the two children of a split.
	LeftWoEKey  = "binning.left_woe"
	RightWoEKey = "binning.right_woe"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// PredsKey is the number of predictions made.
	PredsKey = "preds.count"
)

// Error context.
const (
	// ErrorCodeKey is a structured error code, see the Error* constants.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the error, e.g. "ValidationError".
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information.
	StacktraceKey = "error.stacktrace"
)

// Hyperparameters.
const (
	// HyperParamsKey contains the estimator parameters as a structured object.
	HyperParamsKey = "model.hyperparams"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationLoad    = "load"
	OperationSave    = "save"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseInference     = "inference"

	ErrorNotFitted    = "NOT_FITTED"
	ErrorInvalidInput = "INVALID_INPUT"
	ErrorEmptyData    = "EMPTY_DATA"
)
