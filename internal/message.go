package internal

// Message is the envelope for every frame on the wire, inbound and
// outbound. Inbound frames are first decoded with T = json.RawMessage and
// the payload is decoded again once the type is known.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// =============================================================================
// ERROR SIGNALS (unicast to the offending caller, never broadcast)
// =============================================================================

const (
	ErrNoRoom           = "NO_ROOM"
	ErrNoSuchRoom       = "NO_SUCH_ROOM"
	ErrRoomOccupied     = "ROOM_OCCUPIED"
	ErrRoomFull         = "ROOM_FULL"
	ErrNotDisplay       = "NOT_DISPLAY"
	ErrNoBatter         = "NO_BATTER"
	ErrNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	ErrNoDisplay        = "NO_DISPLAY"
	ErrGameRunning      = "GAME_RUNNING"
)

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// INBOUND PAYLOADS
// =============================================================================

type JoinRoomData struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
}

type LeaveRoomData struct {
	Room string `json:"room"`
}

type SwingData struct {
	BallID string   `json:"ballId"`
	Power  *float64 `json:"power,omitempty"`
}

type ShakeData struct {
	Delta float64 `json:"delta"`
}

type Aim struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ThrowDartData struct {
	Room  string `json:"room"`
	Name  string `json:"name,omitempty"`
	Aim   Aim    `json:"aim"`
	Score int    `json:"score"`
}

type AimUpdateData struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
	Aim  Aim    `json:"aim"`
}

type AimOffData struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
}

type ScoreSubmission struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type FinishGameData struct {
	Room   string            `json:"room"`
	Scores []ScoreSubmission `json:"scores"`
}

type ResetQueueData struct {
	Project string `json:"project"`
}

// =============================================================================
// OUTBOUND PAYLOADS
// =============================================================================

// Snapshot is the full room state broadcast after every visible change.
// Always the whole thing, never a diff.
type Snapshot struct {
	Status       RoomStatus    `json:"status"`
	Participants []Participant `json:"participants"`
	WinnerID     string        `json:"winnerId,omitempty"`
}

type JoinedRoomData struct {
	Room        string `json:"room"`
	Role        string `json:"role,omitempty"`
	PlayerCount int    `json:"playerCount,omitempty"`
}

type RoomPlayerCountData struct {
	Room        string `json:"room"`
	PlayerCount int    `json:"playerCount"`
}

type ClientInfoData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room"`
}

type BatterReadyData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type BallSpawnData struct {
	BallID  string `json:"ballId"`
	FallMs  int64  `json:"fallMs"`
	SpawnAt int64  `json:"spawnAt"`
}

type HitData struct {
	BallID      string      `json:"ballId"`
	Outcome     string      `json:"outcome"`
	Power       float64     `json:"power"`
	TimingMs    int64       `json:"timingMs"`
	Participant Participant `json:"participant"`
}

type MissData struct {
	BallID string `json:"ballId"`
}

type BallExpiredData struct {
	BallID string `json:"ballId"`
}

type GameOverData struct {
	Reason   string   `json:"reason,omitempty"`
	WinnerID string   `json:"winnerId,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

type RankedEntry struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

type EntrantResult struct {
	Result       string        `json:"result"` // "win" | "tie" | "lose"
	Score        int           `json:"score"`
	Rank         int           `json:"rank"`
	TotalPlayers int           `json:"totalPlayers"`
	Ranking      []RankedEntry `json:"ranking"`
}

type GameResultData struct {
	Results map[string]EntrantResult `json:"results"`
	Ranking []RankedEntry            `json:"ranking"`
}

type GameFinishedData struct {
	Room    string        `json:"room"`
	Ranking []RankedEntry `json:"ranking"`
}

type QueueStatusData struct {
	Queue []string `json:"queue"`
}

// Response is the envelope for plain HTTP endpoints.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
