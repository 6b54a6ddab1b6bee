package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Command level messages (info)
		"Extracting frames from %s (%s %dx%d)": "%s からフレームを抽出中 (%s %dx%d)",
		"Extracted %d of %d frames":            "%d / %d フレームを抽出しました",
		"Saved %d frames to %s":                "%d フレームを %s に保存しました",
		"Contact sheet saved to %s":            "コンタクトシートを %s に保存しました",
		"Manifest saved to %s":                 "マニフェストを %s に保存しました",
		"Wrote %s pattern to %s":               "%s パターンを %s に書き出しました",
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",

		// Decoder (debug)
		"Opened %s: stream %d (%s) %dx%d via %s":                             "%s を開きました: ストリーム %d (%s) %dx%d, バックエンド %s",
		"End of stream after %d frames":                                      "%d フレームでストリームが終了しました",
		"Conversion changed from %dx%d/%d to %dx%d/%d, recreating converter": "変換条件が %dx%d/%d から %dx%d/%d に変わったため、コンバーターを再作成します",
		"Using %s backend for %s container":                                  "%[2]s コンテナに %[1]s バックエンドを使用します",

		// Extract stage (debug)
		"Saved frame %d to %s":  "フレーム %d を %s に保存しました",
		"Reached frame limit %d": "フレーム数の上限 %d に達しました",
		"Saved %s to %s":        "%s を %s に保存しました",

		// Warnings
		"Skipping undecodable frame: %v":                               "デコードできないフレームをスキップします: %v",
		"Frames are already grayscale, ignoring the grayscale option": "フレームは既にグレースケールのため、グレースケール指定を無視します",
		"Frame is already grayscale, nothing to do":                    "フレームは既にグレースケールです",
		"Cannot convert %s frame to grayscale":                         "%s フレームはグレースケールに変換できません",
		"Cannot read MP4 boxes: %v":                                    "MP4ボックスを読み込めません: %v",
		"Streams not listed: %v":                                       "ストリームを表示できません: %v",
	})
}
