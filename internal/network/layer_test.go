package network_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/activation"
	"github.com/fern-ml/fern/internal/initializer"
	"github.com/fern-ml/fern/internal/network"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func dense(rows, cols int, values ...float64) *mat.Dense {
	return mat.NewDense(rows, cols, values)
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// goldenLayer is the reference layer from the regression scenario:
// weights [[0.1,0.2],[0.3,0.4]], biases [0.1,0.1], sigmoid.
func goldenLayer(t *testing.T) *network.Layer {
	t.Helper()
	layer, err := network.NewLayerFromParams(
		dense(2, 2, 0.1, 0.2, 0.3, 0.4),
		vec(0.1, 0.1),
		activation.Sigmoid{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return layer
}

// TestLayer_ForwardGolden pins the forward pass to hand-computed values:
// input [1,0] gives z = [0.2,0.3] and output [σ(0.2), σ(0.3)].
func TestLayer_ForwardGolden(t *testing.T) {
	layer := goldenLayer(t)

	output, err := layer.Forward(vec(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{sigmoid(0.2), sigmoid(0.3)} // ≈ [0.5498, 0.5744]
	for i, w := range want {
		if math.Abs(output.AtVec(i)-w) > 1e-12 {
			t.Errorf("output[%d] = %.10f, want %.10f", i, output.AtVec(i), w)
		}
	}
	if math.Abs(output.AtVec(0)-0.5498) > 1e-4 || math.Abs(output.AtVec(1)-0.5744) > 1e-4 {
		t.Errorf("output %v drifted from golden [0.5498, 0.5744]", output.RawVector().Data)
	}
}

// TestLayer_ForwardRejectsWidthMismatch checks the dimension precondition is
// a hard error, not a silent miscomputation.
func TestLayer_ForwardRejectsWidthMismatch(t *testing.T) {
	layer := goldenLayer(t)
	if _, err := layer.Forward(vec(1, 0, 1)); err == nil {
		t.Fatal("Forward with 3-wide input on a 2-wide layer should fail")
	}
}

// TestLayer_Backward checks the chain-rule products against the formulas
// computed directly in the test.
func TestLayer_Backward(t *testing.T) {
	layer := goldenLayer(t)
	input := vec(1, 0)
	output, err := layer.Forward(input)
	if err != nil {
		t.Fatal(err)
	}
	costDeriv := vec(1, -1)

	grads, err := layer.Backward(input, output, costDeriv)
	if err != nil {
		t.Fatal(err)
	}

	// delta_j = y_j(1-y_j) · costDeriv_j
	delta := make([]float64, 2)
	for j := range delta {
		y := output.AtVec(j)
		delta[j] = y * (1 - y) * costDeriv.AtVec(j)
	}

	for j := range delta {
		if math.Abs(grads.Biases.AtVec(j)-delta[j]) > 1e-12 {
			t.Errorf("bias gradient[%d] = %v, want %v", j, grads.Biases.AtVec(j), delta[j])
		}
	}
	// weight gradient is the outer product input ⊗ delta
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := input.AtVec(i) * delta[j]
			if math.Abs(grads.Weights.At(i, j)-want) > 1e-12 {
				t.Errorf("weight gradient[%d,%d] = %v, want %v", i, j, grads.Weights.At(i, j), want)
			}
		}
	}
	// upstream_i = Σ_j W_ij · delta_j
	for i := 0; i < 2; i++ {
		want := layer.Weights().At(i, 0)*delta[0] + layer.Weights().At(i, 1)*delta[1]
		if math.Abs(grads.Upstream.AtVec(i)-want) > 1e-12 {
			t.Errorf("upstream[%d] = %v, want %v", i, grads.Upstream.AtVec(i), want)
		}
	}
}

// TestLayer_BackwardRejectsWidthMismatch checks gradient preconditions.
func TestLayer_BackwardRejectsWidthMismatch(t *testing.T) {
	layer := goldenLayer(t)
	in, out := vec(1, 0), vec(0.5, 0.5)

	if _, err := layer.Backward(vec(1), out, vec(1, 1)); err == nil {
		t.Error("short cached input should fail")
	}
	if _, err := layer.Backward(in, vec(0.5), vec(1, 1)); err == nil {
		t.Error("short cached output should fail")
	}
	if _, err := layer.Backward(in, out, vec(1)); err == nil {
		t.Error("short cost derivative should fail")
	}
}

// TestLayer_ApplyStepMomentum pins two consecutive updates of a 1×1 layer:
// the second step must blend in 0.9 of the first step's delta.
func TestLayer_ApplyStepMomentum(t *testing.T) {
	layer, err := network.NewLayerFromParams(dense(1, 1, 1.0), vec(0.5), activation.Sigmoid{})
	if err != nil {
		t.Fatal(err)
	}
	grads := &network.LayerGrads{Weights: dense(1, 1, 0.2), Biases: vec(0.1)}

	// Step 1: ΔW = 0.5·0.2 = 0.1, Δb = 0.5·0.1 = 0.05.
	if err := layer.ApplyStep(grads, 0.5, 0.9); err != nil {
		t.Fatal(err)
	}
	if got := layer.Weights().At(0, 0); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("weight after step 1 = %v, want 0.9", got)
	}
	if got := layer.Biases().AtVec(0); math.Abs(got-0.45) > 1e-12 {
		t.Errorf("bias after step 1 = %v, want 0.45", got)
	}

	// Step 2: ΔW = 0.1 + 0.9·0.1 = 0.19, Δb = 0.05 + 0.9·0.05 = 0.095.
	if err := layer.ApplyStep(grads, 0.5, 0.9); err != nil {
		t.Fatal(err)
	}
	if got := layer.Weights().At(0, 0); math.Abs(got-0.71) > 1e-12 {
		t.Errorf("weight after step 2 = %v, want 0.71", got)
	}
	if got := layer.Biases().AtVec(0); math.Abs(got-0.355) > 1e-12 {
		t.Errorf("bias after step 2 = %v, want 0.355", got)
	}
}

// TestLayer_ApplyStepRejectsShapeMismatch checks the update precondition.
func TestLayer_ApplyStepRejectsShapeMismatch(t *testing.T) {
	layer := goldenLayer(t)
	bad := &network.LayerGrads{Weights: dense(1, 2, 0, 0), Biases: vec(0, 0)}
	if err := layer.ApplyStep(bad, 0.5, 0.9); err == nil {
		t.Fatal("mismatched gradient shape should fail")
	}
}

// TestNewLayer_ConsultsInitializer checks every slot is filled from the
// initializer.
func TestNewLayer_ConsultsInitializer(t *testing.T) {
	layer, err := network.NewLayer(3, 2, activation.Tanh{}, initializer.Constant{W: 0.5, B: -0.25})
	if err != nil {
		t.Fatal(err)
	}
	if layer.InputWidth() != 3 || layer.OutputWidth() != 2 {
		t.Fatalf("layer shape %d×%d, want 3×2", layer.InputWidth(), layer.OutputWidth())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if layer.Weights().At(i, j) != 0.5 {
				t.Errorf("weight (%d,%d) = %v, want 0.5", i, j, layer.Weights().At(i, j))
			}
		}
	}
	for j := 0; j < 2; j++ {
		if layer.Biases().AtVec(j) != -0.25 {
			t.Errorf("bias %d = %v, want -0.25", j, layer.Biases().AtVec(j))
		}
	}
}

// TestNewLayer_Validation checks constructor preconditions.
func TestNewLayer_Validation(t *testing.T) {
	if _, err := network.NewLayer(0, 2, activation.Sigmoid{}, initializer.Zero); err == nil {
		t.Error("zero input width should fail")
	}
	if _, err := network.NewLayer(2, 2, nil, initializer.Zero); err == nil {
		t.Error("nil activation should fail")
	}
	if _, err := network.NewLayer(2, 2, activation.Sigmoid{}, nil); err == nil {
		t.Error("nil initializer should fail")
	}
	if _, err := network.NewLayerFromParams(dense(2, 2, 0, 0, 0, 0), vec(0, 0, 0), activation.Sigmoid{}); err == nil {
		t.Error("bias length mismatch should fail")
	}
}
