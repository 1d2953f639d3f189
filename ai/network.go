package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"minesweeper/game"
)

// WindowRadius は特徴量に使う周囲の範囲です (5x5)
const WindowRadius = 2

// InputSize はネットワークの入力数です
const InputSize = (2*WindowRadius + 1) * (2*WindowRadius + 1)

// 特徴量で使う値
const (
	FeatureWall    = 9.0  // 盤面外
	FeatureHidden  = -1.0 // 未開封
	FeatureFlagged = -2.0 // 旗
)

// 重みデータの構造体（JSONと同じ構造）
type Weights struct {
	Fc1Weight [][]float64 `json:"fc1_weight"`
	Fc1Bias   []float64   `json:"fc1_bias"`
	Fc2Weight [][]float64 `json:"fc2_weight"`
	Fc2Bias   []float64   `json:"fc2_bias"`
	Fc3Weight [][]float64 `json:"fc3_weight"`
	Fc3Bias   []float64   `json:"fc3_bias"`
}

// Network は推論を行うための構造体
type Network struct {
	w Weights
}

// NewNetwork はJSONデータからネットワークを初期化します
func NewNetwork(jsonData []byte) (*Network, error) {
	var w Weights
	if err := json.Unmarshal(jsonData, &w); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &Network{w: w}, nil
}

// LoadNetwork は重みファイルを読み込みます
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights %s: %w", path, err)
	}
	return NewNetwork(data)
}

// validate は各層の形が繋がっているか確認します
func (w Weights) validate() error {
	layers := []struct {
		name   string
		weight [][]float64
		bias   []float64
	}{
		{"fc1", w.Fc1Weight, w.Fc1Bias},
		{"fc2", w.Fc2Weight, w.Fc2Bias},
		{"fc3", w.Fc3Weight, w.Fc3Bias},
	}

	in := InputSize
	for _, l := range layers {
		if len(l.weight) == 0 {
			return fmt.Errorf("layer %s has no weights", l.name)
		}
		if len(l.bias) != len(l.weight) {
			return fmt.Errorf("layer %s: %d biases for %d outputs", l.name, len(l.bias), len(l.weight))
		}
		for i, row := range l.weight {
			if len(row) != in {
				return fmt.Errorf("layer %s row %d: expected %d inputs, got %d", l.name, i, in, len(row))
			}
		}
		in = len(l.weight)
	}
	if in != 1 {
		return fmt.Errorf("layer fc3 must have 1 output, got %d", in)
	}
	return nil
}

// Predict は入力(25個の数値)を受け取り、地雷確率(0.0~1.0)を返します
func (n *Network) Predict(input []float64) float64 {
	// Layer 1
	out1 := relu(addBias(matVecMul(n.w.Fc1Weight, input), n.w.Fc1Bias))

	// Layer 2
	out2 := relu(addBias(matVecMul(n.w.Fc2Weight, out1), n.w.Fc2Bias))

	// Layer 3 (Output)
	out3 := addBias(matVecMul(n.w.Fc3Weight, out2), n.w.Fc3Bias)

	// Sigmoidで0~1の確率に変換
	return sigmoid(out3[0])
}

// Features は p を中心とした 5x5 の見えている情報を返します
// 未開封マスの IsMine は使いません
func Features(grid game.Grid, p game.Position) []float64 {
	input := make([]float64, 0, InputSize)
	for dr := -WindowRadius; dr <= WindowRadius; dr++ {
		for dc := -WindowRadius; dc <= WindowRadius; dc++ {
			n := game.Position{Row: p.Row + dr, Column: p.Column + dc}
			val := FeatureWall
			if game.IsOnBoard(n, grid) {
				cell := grid.Cells[n.Row][n.Column]
				switch {
				case cell.IsRevealed:
					val = float64(cell.NeighborCount)
				case cell.IsFlagged:
					val = FeatureFlagged
				default:
					val = FeatureHidden
				}
			}
			input = append(input, val)
		}
	}
	return input
}

// --- 以下、行列演算などのヘルパー関数 ---

// 行列とベクトルの掛け算
func matVecMul(mat [][]float64, vec []float64) []float64 {
	result := make([]float64, len(mat))
	for i, row := range mat {
		sum := 0.0
		for j, v := range row {
			sum += v * vec[j]
		}
		result[i] = sum
	}
	return result
}

// バイアスの加算
func addBias(vec []float64, bias []float64) []float64 {
	result := make([]float64, len(vec))
	for i := range vec {
		result[i] = vec[i] + bias[i]
	}
	return result
}

// ReLU関数
func relu(vec []float64) []float64 {
	result := make([]float64, len(vec))
	for i, v := range vec {
		result[i] = math.Max(v, 0)
	}
	return result
}

// Sigmoid関数
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
