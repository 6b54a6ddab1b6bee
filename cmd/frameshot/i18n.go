// Package main provides localization for the frameshot CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定ファイル",
		"Output":        "出力",
		"Decoding":      "デコード",
		"Selection":     "フレーム選択",
		"Contact Sheet": "コンタクトシート",
		"Logging":       "ログ",

		// Root command
		"Decode video frames into uncompressed images": "動画のフレームを非圧縮画像にデコード",
		"frameshot decodes the video stream of a media file and saves its frames as PPM, PAM or PGM images.": "frameshotはメディアファイルの映像ストリームをデコードし、フレームをPPM・PAM・PGM画像として保存します。",
		"Error: %s": "エラー: %s",

		// Extract command
		"Save the frames of a video as images":                            "動画のフレームを画像として保存",
		"YAML configuration file":                                         "YAML設定ファイル",
		"Output directory (default: frames)":                              "出力ディレクトリ（デフォルト: frames）",
		"File name pattern taking the frame number (default: frame-%05d)": "フレーム番号を受け取るファイル名パターン（デフォルト: frame-%05d）",
		"Image format (ppm, pam, pgm; default: by pixel format)":          "画像形式（ppm, pam, pgm、デフォルト: ピクセル形式から決定）",
		"Write manifest.yaml and manifest.md":                             "manifest.yaml と manifest.md を出力",
		"Decode without writing any file":                                 "ファイルを書き出さずにデコードのみ行う",
		"Pixel format (rgb, rgba, gray)":                                  "ピクセル形式（rgb, rgba, gray）",
		"Reduce frames to luminance":                                      "フレームを輝度のみに変換",
		"Keep every Nth frame":                                            "Nフレームごとに1枚を保存",
		"Stop after this many frames (0 = all)":                           "保存するフレーム数の上限（0 = すべて）",
		"Render a contact sheet of the kept frames":                       "保存したフレームのコンタクトシートを作成",
		"Thumbnails per contact sheet row":                                "コンタクトシート1行あたりのサムネイル数",
		"Thumbnail width in pixels":                                       "サムネイルの幅（ピクセル）",
		"Codec backend (auto, libav, mpeg1)":                              "コーデックバックエンド（auto, libav, mpeg1）",

		// Info command
		"Show the streams of a media file": "メディアファイルのストリームを表示",
		"File":                             "ファイル",
		"Backend":                          "バックエンド",
		"%d frames":                        "%d フレーム",
		"%d samples":                       "%d サンプル",
		"progressive":                      "プログレッシブ",
		"fragmented":                       "フラグメント",

		// Pattern command
		"Write a synthetic test frame":                                "合成テストフレームを書き出し",
		"Output image path (.ppm, .pam or .pgm)":                      "出力画像のパス（.ppm, .pam, .pgm）",
		"Pattern (gradient, solid, bars)":                             "パターン（gradient, solid, bars）",
		"Frame width":                                                 "フレームの幅",
		"Frame height":                                                "フレームの高さ",
		"Pixel format (rgb, rgba, gray; default: by file extension)": "ピクセル形式（rgb, rgba, gray、デフォルト: 拡張子から決定）",
		"Fill color of the solid pattern (hex)":                       "solidパターンの塗りつぶし色（16進数）",

		// Version command
		"Show version information":          "バージョン情報を表示",
		"frameshot version %s":              "frameshot バージョン %s",
		"available":                         "利用可能",
		"not available (built without cgo)": "利用不可（cgoなしでビルド）",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Manifest content
		"Extraction Manifest":       "抽出マニフェスト",
		"Item":                      "項目",
		"Value":                     "値",
		"Run ID":                    "実行ID",
		"Generated At":              "生成日時",
		"Input":                     "入力",
		"Stream":                    "ストリーム",
		"Stream Index":              "ストリーム番号",
		"Codec":                     "コーデック",
		"Resolution":                "解像度",
		"Frame Rate":                "フレームレート",
		"Duration":                  "再生時間",
		"Frame Count":               "フレーム数",
		"Settings":                  "設定",
		"Pixel Format":              "ピクセル形式",
		"Export Format":             "出力形式",
		"Every":                     "間引き間隔",
		"Max Frames":                "最大フレーム数",
		"Grayscale":                 "グレースケール",
		"Frames Decoded":            "デコードしたフレーム",
		"Frames Saved":              "保存したフレーム",
		"Packets Read":              "読み込んだパケット",
		"Packets Skipped":           "スキップしたパケット",
		"Decode Errors":             "デコードエラー",
		"Frames":                    "フレーム一覧",
		"Frame":                     "フレーム",
		"N/A":                       "なし",
		"auto":                      "自動",
		"yes":                       "はい",
		"no":                        "いいえ",
		"Generated by frameshot %s": "frameshot %s で生成",
	})
}
