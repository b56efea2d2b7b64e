// Package apitypes defines the JSON request and response shapes of the /v1
// REST contract shared by the studio client and the mock backend. The types
// are plain data: no behavior beyond serialization helpers.
package apitypes

import (
	"encoding/json"
	"time"
)

// Response is the envelope every /v1 endpoint returns.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

// Meta carries demo-mode metadata on every response.
type Meta struct {
	Version string `json:"version"`
	Warning string `json:"warning,omitempty"`
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3D is a 3D coordinate.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity is a user account.
type Identity struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /v1/identities/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"identity"`
}

// Delegation statuses.
const (
	DelegationPending   = "pending"
	DelegationAccepted  = "accepted"
	DelegationCompleted = "completed"
	DelegationRevoked   = "revoked"
)

// Delegation is a task delegated to another identity.
type Delegation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AssigneeID  string    `json:"assignee_id"`
	Status      string    `json:"status"`
	Reward      float64   `json:"reward"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Transaction kinds.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// WalletBalance is the current balance of one identity's wallet.
type WalletBalance struct {
	IdentityID string  `json:"identity_id"`
	Balance    float64 `json:"balance"`
	Currency   string  `json:"currency"`
}

// Transaction is one wallet ledger entry.
type Transaction struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Kind       string    `json:"kind"`
	Amount     float64   `json:"amount"`
	Memo       string    `json:"memo,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Template is a reusable pattern template in the library.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Seam is one seam line on a pattern piece.
type Seam struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Points []Point `json:"points"`
}

// PatternPiece is one flattened 2D piece of a garment pattern.
type PatternPiece struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Contour []Point `json:"contour"`
	Seams   []Seam  `json:"seams"`
	Notches []Point `json:"notches"`
}

// Pattern is a full set of flattened pieces generated from a 3D design.
type Pattern struct {
	ID       string            `json:"id"`
	DesignID string            `json:"design_id"`
	Pieces   []PatternPiece    `json:"pieces"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// GenerateRequest is the body of POST /v1/inference/patterns/generate.
type GenerateRequest struct {
	Design Design `json:"design"`
}

// Design is a minimal 3D design payload: named meshes only, enough for the
// demo engines to echo structure back.
type Design struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Meshes []Mesh `json:"meshes"`
}

// Mesh is one 3D mesh of a design.
type Mesh struct {
	ID       string       `json:"id"`
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

// GenerateResult pairs a generated pattern with its run metrics.
type GenerateResult struct {
	Pattern Pattern            `json:"pattern"`
	Metrics map[string]float64 `json:"metrics"`
}

// Fabric describes a fabric and its physical properties.
type Fabric struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Weight             string             `json:"weight"`
	Width              float64            `json:"width"`
	PhysicalProperties map[string]float64 `json:"physical_properties,omitempty"`
}

// SimulateRequest is the body of POST /v1/inference/fabric/simulate.
type SimulateRequest struct {
	Pattern Pattern `json:"pattern"`
	Fabric  Fabric  `json:"fabric"`
}

// DrapedMesh is the (placeholder) result of a draping simulation.
type DrapedMesh struct {
	ID       string            `json:"id"`
	Vertices []Point3D         `json:"vertices"`
	Faces    [][3]int          `json:"faces"`
	Normals  []Point3D         `json:"normals"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SimulateResult pairs a draped mesh with its run metrics.
type SimulateResult struct {
	Mesh    DrapedMesh         `json:"mesh"`
	Metrics map[string]float64 `json:"metrics"`
}

// LayoutRequest is the body of POST /v1/inference/layout/optimize.
type LayoutRequest struct {
	Pattern Pattern `json:"pattern"`
	Fabric  Fabric  `json:"fabric"`
}

// Placement is one piece's position in a marker layout.
type Placement struct {
	PieceID  string  `json:"piece_id"`
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"`
}

// LayoutResult is the outcome of a layout optimization run.
type LayoutResult struct {
	Layout       []Placement        `json:"layout"`
	FabricLength float64            `json:"fabric_length"`
	Utilization  float64            `json:"utilization"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Error is the body returned for failed requests.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
